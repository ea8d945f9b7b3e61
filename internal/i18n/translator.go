package i18n

// Translator retrieves localized labels for issue codes.
type Translator interface {
	Message(code string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			return "キーが重複しています"
		case "max_depth":
			return "ネストが深すぎます"
		case "empty_document":
			return "空のドキュメント"
		case "schema_violation":
			return "スキーマ違反"
		case "schema_fault":
			return "スキーマ検証エラー"
		case "io_error":
			return "読み込みエラー"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			return "duplicate key"
		case "max_depth":
			return "nesting too deep"
		case "empty_document":
			return "empty document"
		case "schema_violation":
			return "schema violation"
		case "schema_fault":
			return "schema fault"
		case "io_error":
			return "read error"
		}
	}
	return code
}

// Languages lists the built-in dictionaries.
var Languages = []string{"en", "ja"}

// New returns the built-in Translator for lang ("en"/"ja"). Unknown
// languages fall back to English.
func New(lang string) Translator {
	if lang != "ja" {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}
