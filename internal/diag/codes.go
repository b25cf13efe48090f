package diag

import (
	"fmt"
)

// Code is a stable machine-readable tag for a diagnostic kind. Editor
// tooling keys quick-fixes off Code.String(), so the string forms are part
// of the public contract and must never change for an existing code.
type Code uint16

const (
	UnknownCode Code = 0

	// Semantic analysis (4000-4999)
	SemaInfo                 Code = 4000
	SemaUnknownName          Code = 4001
	SemaReassignImmutable    Code = 4002
	SemaDuplicateBinding     Code = 4003
	SemaTypeMismatch         Code = 4004
	SemaNumericOutOfRange    Code = 4005
	SemaNonConstEvaluable    Code = 4006
	SemaConstDependencyCycle Code = 4007
	SemaUnknownDerive        Code = 4008
	SemaInvalidDeriveTarget  Code = 4009
	SemaAliasCollision       Code = 4010
	SemaDuplicateField       Code = 4011
	SemaInvalidOperands      Code = 4012
	SemaUnknownField         Code = 4013
	SemaUnknownMethod        Code = 4014
	SemaArityMismatch        Code = 4015
	SemaMissingField         Code = 4016

	// Semantic warnings
	SemaUnusedBinding Code = 4100

	// Project / driver (5000-5999)
	ProjInfo            Code = 5000
	ProjImportCycle     Code = 5001
	ProjModuleNotFound  Code = 5002
	ProjDuplicateModule Code = 5003
	ProjSelfImport      Code = 5004
	ProjBadBundle       Code = 5005
	ProjDepFailed       Code = 5006
)

// ID renders the stable numeric form used in machine output, e.g. "PYR4001".
func (c Code) ID() string {
	return fmt.Sprintf("PYR%04d", uint16(c))
}

func (c Code) String() string {
	switch c {
	case SemaInfo:
		return "SemaInfo"
	case SemaUnknownName:
		return "UnknownName"
	case SemaReassignImmutable:
		return "ReassignImmutable"
	case SemaDuplicateBinding:
		return "DuplicateBinding"
	case SemaTypeMismatch:
		return "TypeMismatch"
	case SemaNumericOutOfRange:
		return "NumericLiteralOutOfRange"
	case SemaNonConstEvaluable:
		return "NonConstEvaluable"
	case SemaConstDependencyCycle:
		return "ConstDependencyCycle"
	case SemaUnknownDerive:
		return "UnknownDerive"
	case SemaInvalidDeriveTarget:
		return "InvalidDeriveTarget"
	case SemaAliasCollision:
		return "AliasCollision"
	case SemaDuplicateField:
		return "DuplicateFieldAssignment"
	case SemaInvalidOperands:
		return "InvalidOperands"
	case SemaUnknownField:
		return "UnknownField"
	case SemaUnknownMethod:
		return "UnknownMethod"
	case SemaArityMismatch:
		return "ArityMismatch"
	case SemaMissingField:
		return "MissingField"
	case SemaUnusedBinding:
		return "UnusedBinding"
	case ProjInfo:
		return "ProjInfo"
	case ProjImportCycle:
		return "ImportCycle"
	case ProjModuleNotFound:
		return "ModuleNotFound"
	case ProjDuplicateModule:
		return "DuplicateModule"
	case ProjSelfImport:
		return "SelfImport"
	case ProjBadBundle:
		return "BadBundle"
	case ProjDepFailed:
		return "DependencyFailed"
	}
	return fmt.Sprintf("Code(%d)", uint16(c))
}
