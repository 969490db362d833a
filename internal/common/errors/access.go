package commonerrors

const (
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
)

type AccessDeniedError struct{}

func (AccessDeniedError) Error() string   { return "Access denied" }
func (AccessDeniedError) Code() string    { return CodeAccessDenied }
func (AccessDeniedError) Message() string { return "Access denied" }
func (AccessDeniedError) Meta() Meta      { return nil }

// InternalServerError is what clients see for any failure without a status
// mapping.
type InternalServerError struct{}

func (InternalServerError) Error() string   { return "Internal Server Error" }
func (InternalServerError) Code() string    { return CodeInternalServerError }
func (InternalServerError) Message() string { return "Internal Server Error" }
func (InternalServerError) Meta() Meta      { return nil }
