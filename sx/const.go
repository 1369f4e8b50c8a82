package sx

// Well-known symbols used by the reader, AST builder and macro expander to
// recognize special forms by name, mirroring the teacher's const.go.
const (
	SymbolQuote           Symbol = "quote"
	SymbolQuasiquote      Symbol = "quasiquote"
	SymbolUnquote         Symbol = "unquote"
	SymbolUnquoteSplicing Symbol = "unquote-splicing"

	SymbolIf     Symbol = "if"
	SymbolCond   Symbol = "cond"
	SymbolElse   Symbol = "else"
	SymbolAnd    Symbol = "and"
	SymbolOr     Symbol = "or"
	SymbolDefine Symbol = "define"
	SymbolDefun  Symbol = "defun"
	SymbolDefmacro Symbol = "defmacro"
	SymbolLambda Symbol = "lambda"
	SymbolApply  Symbol = "apply"
	SymbolLet    Symbol = "let"
	SymbolLetStar Symbol = "let*"
	SymbolLetrec Symbol = "letrec"
	SymbolModule Symbol = "module"
	SymbolImport Symbol = "import"
	SymbolExport Symbol = "export"
	SymbolSet    Symbol = "set!"

	SymbolList Symbol = "list"
)
