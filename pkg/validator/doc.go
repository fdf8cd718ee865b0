// Package validator provides composable input validation rules.
//
// Each rule pairs a check with the error reported when it fails. Apply runs
// every rule and returns ValidationErrors listing all failures.
//
//	err := validator.Apply(
//	    validator.RequiredString("email", email),
//	    validator.ValidEmail("email", email),
//	)
//	if validator.IsValidationError(err) {
//	    // 400
//	}
package validator
