package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "missing_field":
			return "必須フィールドが不足しています"
		case "unknown_item":
			return "未知の項目です"
		case "duplicate_item":
			return "項目が重複しています"
		case "order_violation":
			return "項目の順序が不正です"
		case "unbound_prefix":
			return "接頭辞が束縛されていません"
		case "no_matching_variant":
			return "一致するバリアントがありません"
		case "invalid_value":
			return "値が不正です"
		case "wrong_name":
			return "要素名が一致しません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "missing_field":
			return "required field missing"
		case "unknown_item":
			return "unknown item"
		case "duplicate_item":
			return "duplicate item"
		case "order_violation":
			return "item out of order"
		case "unbound_prefix":
			return "prefix not bound"
		case "no_matching_variant":
			return "no matching variant"
		case "invalid_value":
			return "invalid value"
		case "wrong_name":
			return "unexpected name"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
