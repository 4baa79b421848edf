package pasetotoken

// ErrConfig reports unusable key material or manager settings.
type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto: " + e.Msg }

// ErrInvalidToken wraps every verification failure. Callers map it to 401.
type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return "paseto: invalid token: " + e.Err.Error() }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
