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
	LexIllegalIdent             Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynUnexpectedEOF   Code = 2002
	SynAmbiguous       Code = 2003
	SynInvalidMakeOr   Code = 2004

	// Элаборация
	SemaInfo             Code = 3000
	SemaError            Code = 3001
	SemaNotAssignable    Code = 3002
	SemaUnknownVariable  Code = 3003
	SemaUnknownGeneric   Code = 3004
	SemaWrongReturnKind  Code = 3005
	SemaMissingReturn    Code = 3006
	SemaShapeMismatch    Code = 3007
	SemaBadInduction     Code = 3008
	SemaUnconstrained    Code = 3009
	SemaBadTypeExpr      Code = 3010
	SemaBadDestructuring Code = 3011
	SemaBuiltinMisuse    Code = 3012
	SemaInternal         Code = 3013

	// Исполнение
	RunInfo    Code = 4000
	RunError   Code = 4001
	RunKilled  Code = 4002
	RunTimeout Code = 4003

	// Ввод-вывод и конфигурация
	IOInfo          Code = 5000
	IOLoadFileError Code = 5001
	IOCacheError    Code = 5002
	IOConfigError   Code = 5003
	IOConfigUnknown Code = 5004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexIllegalIdent:             "Illegal identifier",
		LexUnterminatedBlockComment: "Unterminated block comment",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnexpectedEOF:            "Unexpected end of code",
		SynAmbiguous:                "Grammar ambiguity",
		SynInvalidMakeOr:            "Invalid property for makeOr",
		SemaInfo:                    "Type checking information",
		SemaError:                   "Type error",
		SemaNotAssignable:           "Type is not assignable",
		SemaUnknownVariable:         "Unknown variable",
		SemaUnknownGeneric:          "Unknown generic",
		SemaWrongReturnKind:         "Wrong terminal statement",
		SemaMissingReturn:           "Block does not end in a terminal statement",
		SemaShapeMismatch:           "Value has the wrong shape",
		SemaBadInduction:            "Malformed for loop",
		SemaUnconstrained:           "Type cannot be inferred",
		SemaBadTypeExpr:             "Invalid type expression",
		SemaBadDestructuring:        "Invalid destructuring assignment",
		SemaBuiltinMisuse:           "Invalid use of a built-in",
		SemaInternal:                "Internal checker error",
		RunInfo:                     "Runtime information",
		RunError:                    "Runtime error",
		RunKilled:                   "Execution was killed",
		RunTimeout:                  "Execution timed out",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Cache error",
		IOConfigError:               "Configuration error",
		IOConfigUnknown:             "Unknown configuration key",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 5000 && ic < 6000:
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
