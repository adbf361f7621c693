package jsast

// Tree-sitter node types shared by the javascript and typescript grammars.
//
// Reference: https://github.com/tree-sitter/tree-sitter-javascript
// and https://github.com/tree-sitter/tree-sitter-typescript
const (
	nodeProgram         = "program"
	nodeExportStatement = "export_statement"
	nodeDefault         = "default"

	nodeClassDeclaration         = "class_declaration"
	nodeAbstractClassDeclaration = "abstract_class_declaration"
	nodeClassExpression          = "class"
	nodeClassBody                = "class_body"
	nodeClassHeritage            = "class_heritage"
	nodeExtendsClause            = "extends_clause"
	nodeMethodDefinition         = "method_definition"
	nodeFieldDefinition          = "field_definition"        // javascript
	nodePublicFieldDefinition    = "public_field_definition" // typescript
	nodeClassStaticBlock         = "class_static_block"
	nodeStatic                   = "static"

	nodeArrowFunction          = "arrow_function"
	nodeFunction               = "function"
	nodeFunctionExpression     = "function_expression"
	nodeFunctionDeclaration    = "function_declaration"
	nodeGeneratorFunction      = "generator_function"
	nodeGeneratorFunctionDecl  = "generator_function_declaration"
	nodeLexicalDeclaration     = "lexical_declaration"
	nodeVariableDeclarator     = "variable_declarator"
	nodeIdentifier             = "identifier"
	nodeTypeIdentifier         = "type_identifier"
	nodePropertyIdentifier     = "property_identifier"
	nodePrivatePropertyIdent   = "private_property_identifier"
	nodeShorthandPropertyIdent = "shorthand_property_identifier"

	nodeArray  = "array"
	nodeObject = "object"
	nodePair   = "pair"
	nodeString = "string"
	nodeNumber = "number"
)

// execution scopes that rebind `this`; arrow functions are deliberately absent.
var thisBindingScopes = map[string]struct{}{
	nodeFunction:              {},
	nodeFunctionExpression:    {},
	nodeFunctionDeclaration:   {},
	nodeGeneratorFunction:     {},
	nodeGeneratorFunctionDecl: {},
}

// class members that provide `this` as the class instance (or the class
// itself for static members).
var classMemberScopes = map[string]struct{}{
	nodeMethodDefinition:      {},
	nodeFieldDefinition:       {},
	nodePublicFieldDefinition: {},
	nodeClassStaticBlock:      {},
}

var classNodes = map[string]struct{}{
	nodeClassDeclaration:         {},
	nodeAbstractClassDeclaration: {},
	nodeClassExpression:          {},
}
