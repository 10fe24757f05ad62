/*
Package predql compiles a restricted boolean filter grammar into typed,
evaluable predicates over schema-described records, and renders compiled
predicates back into the same canonical textual form. Filter criteria can
be persisted and transmitted as plain strings and later reconstituted into
a callable boolean test, without embedding a scripting engine.

# Grammar

	expr    := or
	or      := and ('||' and)*
	and     := eq ('&&' eq)*
	eq      := rel (('==' | '!=') rel)*
	rel     := unary (('>' | '>=' | '<' | '<=') unary)*
	unary   := '!' unary | primary
	primary := '(' expr ')' | path ['(' args ')'] | STRING | NUMBER | BOOL | 'null'
	path    := IDENT ('.' IDENT)*
	args    := [expr (',' expr)*]

# Usage

Describe the queryable surface of a record type with a Schema:

	schema := predql.NewSchema("Person").
	    AddString("Name", func(rec any) any { return rec.(Person).Name }).
	    AddInt("Age", func(rec any) any { return int64(rec.(Person).Age) })

Compile an expression and evaluate it:

	pred, err := predql.Deserialize(schema, `Age > 18 && Name.StartsWith("J")`)
	if err != nil {
	    // *query.LexError, *query.ParseError, or *predql.BindError
	}

	ok, err := pred.Eval(Person{Name: "Jane", Age: 25})

Render the predicate back to its canonical string:

	text, err := predql.Serialize(pred)
	// ((Age > 18) && Name.StartsWith("J"))

# Limits

Deserialize rejects blank input, input longer than MaxExpressionLength
characters, and expressions nested more than query.MaxNestingDepth
parentheses deep.
Both ceilings are enforced before unbounded recursion can occur.

Everything is synchronous and call-local; predicates and schemas are
immutable after construction and safe for concurrent use.
*/
package predql
