package token

var keywords = map[string]Kind{
	"struct":   KwStruct,
	"enum":     KwEnum,
	"union":    KwUnion,
	"type":     KwType,
	"const":    KwConst,
	"callback": KwCallback,
	"mod":      KwMod,
}

// LookupKeyword returns the keyword kind for ident.
// Keywords are case-sensitive, only the lowercase spelling is recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
