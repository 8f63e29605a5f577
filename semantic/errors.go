package semantic

// Diagnostic texts. Golden tests compare them verbatim, so wording changes
// are interface changes. diag.Errorf and diag.Warningf add the
// "Semantic error: " and "Semantic warning: " tags.
const (
	// Redeclaration
	msgRedefined = "'%s' is defined multiple times"

	// Undefined names
	msgNotFound     = "cannot find '%s' in this scope"
	msgTypeNotFound = "cannot find type '%s' in this scope"
	msgExpected     = "expected %s, found %s '%s'"

	// Types
	msgMismatch     = "mismatched types: expected %s, found %s"
	msgNeedsType    = "type annotations needed for '%s'"
	msgEmptyArray   = "cannot infer the element type of an empty array"
	msgOperand      = "cannot apply operator '%s' to type '%s'"
	msgDeref        = "type '%s' cannot be dereferenced"
	msgIndex        = "type '%s' cannot be indexed"
	msgIndexType    = "array index must be an integer, found %s"
	msgAliasCycle   = "alias '%s' refers to itself"
	msgEnumOverflow = "value %d of '%s' does not fit in a C enum"

	// Shapes
	msgNoConstructor   = "no such constructor in this namespace: %s"
	msgNoField         = "no field '%s' on type '%s'"
	msgArmArity        = "variant arm '%s' expects %d fields but %d were supplied"
	msgArgCount        = "function '%s' takes %d arguments but %d were supplied"
	msgArgCountAtLeast = "function '%s' takes at least %d arguments but %d were supplied"
	msgNoParam         = "function '%s' has no parameter named '%s'"
	msgMissingArg      = "missing argument '%s' in call to '%s'"
	msgAssignTarget    = "invalid assignment target"
	msgExternBody      = "extern function '%s' cannot have a body"
	msgExternInit      = "extern variable '%s' cannot have an initializer"
	msgExternItem      = "only functions and variables can be declared extern"

	// Mutability
	msgConstMutation   = "const mutation: cannot assign to immutable variable '%s'"
	msgImmutableRef    = "reference is immutable in current scope: '%s'"
	msgBorrowImmutable = "cannot borrow immutable variable '%s' as a mutable reference"

	// Safety
	msgUnionField   = "access to union field '%s' of '%s' requires an unsafe context"
	msgUnionLiteral = "union literal '%s' requires an unsafe context"
	msgUnsafeCall   = "call to unsafe function '%s' requires an unsafe context"

	// Control flow
	msgOutsideLoop     = "'%s' outside of a loop"
	msgOutsideFunction = "'return' outside of a function"

	// Limits and defects
	msgTooDeep  = "nesting exceeds the maximum depth of %d"
	msgInternal = "internal error: %s"

	// Warnings
	msgUninitialized = "use of possibly uninitialized variable '%s'"
)
