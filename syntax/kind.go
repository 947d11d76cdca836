package syntax

// Kind tags every token and node of the tree. Leaf kinds are prefixed with
// Token, composite kinds with Kind.
type Kind uint16

const (
	TokenEOF Kind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenDocComment

	TokenIdent
	TokenLifetime

	// Literals
	TokenIntNumber
	TokenFloatNumber
	TokenChar
	TokenByte
	TokenString
	TokenRawString
	TokenByteString
	TokenRawByteString

	// Keywords
	TokenAsKw
	TokenBreakKw
	TokenConstKw
	TokenContinueKw
	TokenCrateKw
	TokenDynKw
	TokenElseKw
	TokenEnumKw
	TokenExternKw
	TokenFalseKw
	TokenFnKw
	TokenForKw
	TokenIfKw
	TokenImplKw
	TokenInKw
	TokenLetKw
	TokenLoopKw
	TokenMatchKw
	TokenModKw
	TokenMoveKw
	TokenMutKw
	TokenPubKw
	TokenRefKw
	TokenReturnKw
	TokenSelfKw
	TokenStaticKw
	TokenStructKw
	TokenSuperKw
	TokenTraitKw
	TokenTrueKw
	TokenTypeKw
	TokenUnsafeKw
	TokenUseKw
	TokenWhereKw
	TokenWhileKw

	// Punctuation
	TokenSemi
	TokenComma
	TokenDot
	TokenDotDot
	TokenDotDotDot
	TokenDotDotEq
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenLBrack
	TokenRBrack
	TokenLAngle
	TokenRAngle
	TokenAt
	TokenPound
	TokenTilde
	TokenQuestion
	TokenDollar
	TokenAmp
	TokenPipe
	TokenPlus
	TokenStar
	TokenSlash
	TokenCaret
	TokenPercent
	TokenMinus
	TokenEq
	TokenEqEq
	TokenFatArrow
	TokenExcl
	TokenNeq
	TokenLtEq
	TokenGtEq
	TokenAmpAmp
	TokenPipePipe
	TokenColon
	TokenColonColon
	TokenThinArrow
	TokenPlusEq
	TokenMinusEq
	TokenStarEq
	TokenSlashEq
	TokenPercentEq
	TokenCaretEq
	TokenAmpEq
	TokenPipeEq
	TokenShl
	TokenShr
	TokenShlEq
	TokenShrEq
	TokenUnderscore

	// Composite nodes
	KindError
	KindSourceFile

	// Items
	KindStructDef
	KindEnumDef
	KindFnDef
	KindTraitDef
	KindImplItem
	KindModule
	KindUseItem
	KindTypeDef
	KindConstDef
	KindStaticDef
	KindExternCrateItem
	KindMacroCall

	// Item parts
	KindName
	KindNameRef
	KindAttr
	KindTokenTree
	KindVisibility
	KindItemList
	KindNamedFieldDefList
	KindNamedFieldDef
	KindPosFieldList
	KindPosField
	KindEnumVariantList
	KindEnumVariant
	KindParamList
	KindParam
	KindSelfParam
	KindRetType
	KindTypeParamList
	KindTypeParam
	KindLifetimeParam
	KindTypeBoundList
	KindTypeBound
	KindWhereClause
	KindWherePred
	KindUseTree
	KindUseTreeList
	KindAlias

	// Paths
	KindPath
	KindPathSegment
	KindTypeArgList
	KindTypeArg
	KindLifetimeArg
	KindAssocTypeArg

	// Types
	KindPathType
	KindTupleType
	KindParenType
	KindNeverType
	KindPointerType
	KindReferenceType
	KindArrayType
	KindSliceType
	KindFnPointerType
	KindPlaceholderType
	KindImplTraitType
	KindDynTraitType

	// Patterns
	KindBindPat
	KindPlaceholderPat
	KindRefPat
	KindTuplePat
	KindTupleStructPat
	KindStructPat
	KindFieldPatList
	KindPathPat
	KindLiteralPat

	// Expressions
	KindLiteral
	KindPathExpr
	KindTupleExpr
	KindParenExpr
	KindArrayExpr
	KindCallExpr
	KindMethodCallExpr
	KindFieldExpr
	KindIndexExpr
	KindTryExpr
	KindCastExpr
	KindRefExpr
	KindPrefixExpr
	KindBinExpr
	KindRangeExpr
	KindBlockExpr
	KindIfExpr
	KindWhileExpr
	KindLoopExpr
	KindForExpr
	KindMatchExpr
	KindMatchArmList
	KindMatchArm
	KindMatchGuard
	KindLambdaExpr
	KindReturnExpr
	KindBreakExpr
	KindContinueExpr
	KindStructLit
	KindNamedFieldList
	KindNamedField
	KindArgList
	KindCondition

	// Statements
	KindBlock
	KindLetStmt
	KindExprStmt

	// Tombstone marks an abandoned marker in the parser's event stream. It
	// never appears in a finished tree.
	KindTombstone
)

var kindNames = map[Kind]string{
	TokenEOF:           "EOF",
	TokenError:         "ErrorToken",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenDocComment:    "DocComment",
	TokenIdent:         "Ident",
	TokenLifetime:      "Lifetime",
	TokenIntNumber:     "IntNumber",
	TokenFloatNumber:   "FloatNumber",
	TokenChar:          "Char",
	TokenByte:          "Byte",
	TokenString:        "String",
	TokenRawString:     "RawString",
	TokenByteString:    "ByteString",
	TokenRawByteString: "RawByteString",

	TokenAsKw:       "AsKw",
	TokenBreakKw:    "BreakKw",
	TokenConstKw:    "ConstKw",
	TokenContinueKw: "ContinueKw",
	TokenCrateKw:    "CrateKw",
	TokenDynKw:      "DynKw",
	TokenElseKw:     "ElseKw",
	TokenEnumKw:     "EnumKw",
	TokenExternKw:   "ExternKw",
	TokenFalseKw:    "FalseKw",
	TokenFnKw:       "FnKw",
	TokenForKw:      "ForKw",
	TokenIfKw:       "IfKw",
	TokenImplKw:     "ImplKw",
	TokenInKw:       "InKw",
	TokenLetKw:      "LetKw",
	TokenLoopKw:     "LoopKw",
	TokenMatchKw:    "MatchKw",
	TokenModKw:      "ModKw",
	TokenMoveKw:     "MoveKw",
	TokenMutKw:      "MutKw",
	TokenPubKw:      "PubKw",
	TokenRefKw:      "RefKw",
	TokenReturnKw:   "ReturnKw",
	TokenSelfKw:     "SelfKw",
	TokenStaticKw:   "StaticKw",
	TokenStructKw:   "StructKw",
	TokenSuperKw:    "SuperKw",
	TokenTraitKw:    "TraitKw",
	TokenTrueKw:     "TrueKw",
	TokenTypeKw:     "TypeKw",
	TokenUnsafeKw:   "UnsafeKw",
	TokenUseKw:      "UseKw",
	TokenWhereKw:    "WhereKw",
	TokenWhileKw:    "WhileKw",

	TokenSemi:       "Semi",
	TokenComma:      "Comma",
	TokenDot:        "Dot",
	TokenDotDot:     "DotDot",
	TokenDotDotDot:  "DotDotDot",
	TokenDotDotEq:   "DotDotEq",
	TokenLParen:     "LParen",
	TokenRParen:     "RParen",
	TokenLCurly:     "LCurly",
	TokenRCurly:     "RCurly",
	TokenLBrack:     "LBrack",
	TokenRBrack:     "RBrack",
	TokenLAngle:     "LAngle",
	TokenRAngle:     "RAngle",
	TokenAt:         "At",
	TokenPound:      "Pound",
	TokenTilde:      "Tilde",
	TokenQuestion:   "Question",
	TokenDollar:     "Dollar",
	TokenAmp:        "Amp",
	TokenPipe:       "Pipe",
	TokenPlus:       "Plus",
	TokenStar:       "Star",
	TokenSlash:      "Slash",
	TokenCaret:      "Caret",
	TokenPercent:    "Percent",
	TokenMinus:      "Minus",
	TokenEq:         "Eq",
	TokenEqEq:       "EqEq",
	TokenFatArrow:   "FatArrow",
	TokenExcl:       "Excl",
	TokenNeq:        "Neq",
	TokenLtEq:       "LtEq",
	TokenGtEq:       "GtEq",
	TokenAmpAmp:     "AmpAmp",
	TokenPipePipe:   "PipePipe",
	TokenColon:      "Colon",
	TokenColonColon: "ColonColon",
	TokenThinArrow:  "ThinArrow",
	TokenPlusEq:     "PlusEq",
	TokenMinusEq:    "MinusEq",
	TokenStarEq:     "StarEq",
	TokenSlashEq:    "SlashEq",
	TokenPercentEq:  "PercentEq",
	TokenCaretEq:    "CaretEq",
	TokenAmpEq:      "AmpEq",
	TokenPipeEq:     "PipeEq",
	TokenShl:        "Shl",
	TokenShr:        "Shr",
	TokenShlEq:      "ShlEq",
	TokenShrEq:      "ShrEq",
	TokenUnderscore: "Underscore",

	KindError:      "Error",
	KindSourceFile: "SourceFile",

	KindStructDef:       "StructDef",
	KindEnumDef:         "EnumDef",
	KindFnDef:           "FnDef",
	KindTraitDef:        "TraitDef",
	KindImplItem:        "ImplItem",
	KindModule:          "Module",
	KindUseItem:         "UseItem",
	KindTypeDef:         "TypeDef",
	KindConstDef:        "ConstDef",
	KindStaticDef:       "StaticDef",
	KindExternCrateItem: "ExternCrateItem",
	KindMacroCall:       "MacroCall",

	KindName:              "Name",
	KindNameRef:           "NameRef",
	KindAttr:              "Attr",
	KindTokenTree:         "TokenTree",
	KindVisibility:        "Visibility",
	KindItemList:          "ItemList",
	KindNamedFieldDefList: "NamedFieldDefList",
	KindNamedFieldDef:     "NamedFieldDef",
	KindPosFieldList:      "PosFieldList",
	KindPosField:          "PosField",
	KindEnumVariantList:   "EnumVariantList",
	KindEnumVariant:       "EnumVariant",
	KindParamList:         "ParamList",
	KindParam:             "Param",
	KindSelfParam:         "SelfParam",
	KindRetType:           "RetType",
	KindTypeParamList:     "TypeParamList",
	KindTypeParam:         "TypeParam",
	KindLifetimeParam:     "LifetimeParam",
	KindTypeBoundList:     "TypeBoundList",
	KindTypeBound:         "TypeBound",
	KindWhereClause:       "WhereClause",
	KindWherePred:         "WherePred",
	KindUseTree:           "UseTree",
	KindUseTreeList:       "UseTreeList",
	KindAlias:             "Alias",

	KindPath:         "Path",
	KindPathSegment:  "PathSegment",
	KindTypeArgList:  "TypeArgList",
	KindTypeArg:      "TypeArg",
	KindLifetimeArg:  "LifetimeArg",
	KindAssocTypeArg: "AssocTypeArg",

	KindPathType:        "PathType",
	KindTupleType:       "TupleType",
	KindParenType:       "ParenType",
	KindNeverType:       "NeverType",
	KindPointerType:     "PointerType",
	KindReferenceType:   "ReferenceType",
	KindArrayType:       "ArrayType",
	KindSliceType:       "SliceType",
	KindFnPointerType:   "FnPointerType",
	KindPlaceholderType: "PlaceholderType",
	KindImplTraitType:   "ImplTraitType",
	KindDynTraitType:    "DynTraitType",

	KindBindPat:        "BindPat",
	KindPlaceholderPat: "PlaceholderPat",
	KindRefPat:         "RefPat",
	KindTuplePat:       "TuplePat",
	KindTupleStructPat: "TupleStructPat",
	KindStructPat:      "StructPat",
	KindFieldPatList:   "FieldPatList",
	KindPathPat:        "PathPat",
	KindLiteralPat:     "LiteralPat",

	KindLiteral:        "Literal",
	KindPathExpr:       "PathExpr",
	KindTupleExpr:      "TupleExpr",
	KindParenExpr:      "ParenExpr",
	KindArrayExpr:      "ArrayExpr",
	KindCallExpr:       "CallExpr",
	KindMethodCallExpr: "MethodCallExpr",
	KindFieldExpr:      "FieldExpr",
	KindIndexExpr:      "IndexExpr",
	KindTryExpr:        "TryExpr",
	KindCastExpr:       "CastExpr",
	KindRefExpr:        "RefExpr",
	KindPrefixExpr:     "PrefixExpr",
	KindBinExpr:        "BinExpr",
	KindRangeExpr:      "RangeExpr",
	KindBlockExpr:      "BlockExpr",
	KindIfExpr:         "IfExpr",
	KindWhileExpr:      "WhileExpr",
	KindLoopExpr:       "LoopExpr",
	KindForExpr:        "ForExpr",
	KindMatchExpr:      "MatchExpr",
	KindMatchArmList:   "MatchArmList",
	KindMatchArm:       "MatchArm",
	KindMatchGuard:     "MatchGuard",
	KindLambdaExpr:     "LambdaExpr",
	KindReturnExpr:     "ReturnExpr",
	KindBreakExpr:      "BreakExpr",
	KindContinueExpr:   "ContinueExpr",
	KindStructLit:      "StructLit",
	KindNamedFieldList: "NamedFieldList",
	KindNamedField:     "NamedField",
	KindArgList:        "ArgList",
	KindCondition:      "Condition",

	KindBlock:    "Block",
	KindLetStmt:  "LetStmt",
	KindExprStmt: "ExprStmt",

	KindTombstone: "Tombstone",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// MarshalText encodes a kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsTrivia reports whether tokens of this kind are skipped by grammar
// decisions: whitespace and comments.
func (k Kind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment || k == TokenDocComment
}

func (k Kind) IsKeyword() bool {
	return k >= TokenAsKw && k <= TokenWhileKw
}

func (k Kind) IsPunct() bool {
	return k >= TokenSemi && k <= TokenUnderscore
}

func (k Kind) IsLiteral() bool {
	return k >= TokenIntNumber && k <= TokenRawByteString
}

// IsToken reports whether k is a leaf kind.
func (k Kind) IsToken() bool {
	return k < KindError
}

var keywords = map[string]Kind{
	"as":       TokenAsKw,
	"break":    TokenBreakKw,
	"const":    TokenConstKw,
	"continue": TokenContinueKw,
	"crate":    TokenCrateKw,
	"dyn":      TokenDynKw,
	"else":     TokenElseKw,
	"enum":     TokenEnumKw,
	"extern":   TokenExternKw,
	"false":    TokenFalseKw,
	"fn":       TokenFnKw,
	"for":      TokenForKw,
	"if":       TokenIfKw,
	"impl":     TokenImplKw,
	"in":       TokenInKw,
	"let":      TokenLetKw,
	"loop":     TokenLoopKw,
	"match":    TokenMatchKw,
	"mod":      TokenModKw,
	"move":     TokenMoveKw,
	"mut":      TokenMutKw,
	"pub":      TokenPubKw,
	"ref":      TokenRefKw,
	"return":   TokenReturnKw,
	"self":     TokenSelfKw,
	"static":   TokenStaticKw,
	"struct":   TokenStructKw,
	"super":    TokenSuperKw,
	"trait":    TokenTraitKw,
	"true":     TokenTrueKw,
	"type":     TokenTypeKw,
	"unsafe":   TokenUnsafeKw,
	"use":      TokenUseKw,
	"where":    TokenWhereKw,
	"while":    TokenWhileKw,
}

// LookupKeyword returns the keyword kind for ident, or TokenIdent.
func LookupKeyword(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
