package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001

	// tree -> AST
	SynEmptyAttrArgs     Code = 2301
	SynDanglingDoc       Code = 2302
	SynEnumValueOverflow Code = 2303

	// Семантические
	SemaInfo             Code = 3000
	SemaDuplicateName    Code = 3001
	SemaUnresolvedType   Code = 3002
	SemaNotAType         Code = 3003
	SemaVoidValue        Code = 3004
	SemaUnknownAttr      Code = 3010
	SemaAttrWrongTarget  Code = 3011
	SemaAttrArity        Code = 3012
	SemaAttrRequirement  Code = 3013
	SemaAttrRepeated     Code = 3014
	SemaAttrOdd          Code = 3015
	SemaStaticReceiver   Code = 3020
	SemaReceiverRedecl   Code = 3021
	SemaUnionMethod      Code = 3022
	SemaRedundantVoidRet Code = 3023
	SemaDuplicateParam   Code = 3024
	SemaModuleMissing    Code = 3030
	SemaDuplicateModule  Code = 3031
	SemaSelfImport       Code = 3032
	SemaModuleBroken     Code = 3033

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed numeric literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynEmptyAttrArgs:            "Empty attribute argument list",
	SynDanglingDoc:              "Doc comment is not attached to a declaration",
	SynEnumValueOverflow:        "Enum value does not fit in 64 bits",
	SemaInfo:                    "Semantic information",
	SemaDuplicateName:           "Duplicate name",
	SemaUnresolvedType:          "Unresolved type",
	SemaNotAType:                "Name does not denote a type",
	SemaVoidValue:               "void used as a value type",
	SemaUnknownAttr:             "Unknown attribute",
	SemaAttrWrongTarget:         "Attribute not allowed here",
	SemaAttrArity:               "Wrong number of attribute arguments",
	SemaAttrRequirement:         "Attribute requirement not met",
	SemaAttrRepeated:            "Repeated attribute",
	SemaAttrOdd:                 "Unusual attribute combination",
	SemaStaticReceiver:          "Static method declares a receiver",
	SemaReceiverRedecl:          "Method redeclares the implicit receiver",
	SemaUnionMethod:             "Union declares a method",
	SemaRedundantVoidRet:        "Redundant void return type",
	SemaDuplicateParam:          "Duplicate parameter",
	SemaModuleMissing:           "Module not available",
	SemaDuplicateModule:         "Two files define the same module",
	SemaSelfImport:              "Module imports itself",
	SemaModuleBroken:            "Imported module has errors",
	IOLoadFileError:             "I/O load file error",
	IOCacheError:                "Cache error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
