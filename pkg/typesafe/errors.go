package typesafe

import "github.com/funvibe/typesafe/internal/errs"

// Error kinds. Match them with errors.Is against the sentinels or
// errors.As against the struct types.
type ConfigError = errs.ConfigError
type MissingSpecError = errs.MissingSpecError
type ResolutionError = errs.ResolutionError
type SpecMismatchError = errs.SpecMismatchError
type TypeError = errs.TypeError

var (
	ErrConfig       = errs.ErrConfig
	ErrMissingSpec  = errs.ErrMissingSpec
	ErrResolution   = errs.ErrResolution
	ErrSpecMismatch = errs.ErrSpecMismatch
	ErrType         = errs.ErrType
)
