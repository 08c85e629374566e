package config

// ReturnKey is the reserved specification key for the result type.
const ReturnKey = "return"

// NoneTypeName is the bare reference for "no value"; NilTypeName is accepted
// as a Go-flavoured synonym.
const (
	NoneTypeName = "None"
	NilTypeName  = "nil"
)

// Meta-type bare names
const (
	TypeTypeName = "type"
	FuncTypeName = "func"
)

// ConfigFileNames are the recognized configuration file names, in lookup order.
var ConfigFileNames = []string{"typesafe.yaml", "typesafe.yml"}

// LogPrefix prefixes every verbose trace line.
const LogPrefix = "[typesafe]"

// Reserved keys of a gRPC method specification.
const (
	RequestKey = "request"
)
