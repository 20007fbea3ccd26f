// Package validation checks client configuration and caller input.
//
// Struct tags are evaluated with go-playground/validator; field names in
// messages follow the mapstructure/json tag of each field:
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	fields := validation.Struct(cfg)
//
// Validator collects programmatic checks:
//
//	v := validation.New()
//	v.Required("access_token", token)
//	err := v.Validate()
package validation
