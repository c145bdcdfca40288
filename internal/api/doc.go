// Package api is the HTTP client for the marketplace backend.
//
// Every call returns a Response carrying the HTTP status and the raw JSON
// body. A rejected login or a 422 from the backend is a Response, not an
// error; callers decide success by status (see Response.Accepted) and read
// the backend's message with Response.Detail.
//
// Errors are reserved for things that prevent a usable response: the
// payload failed validation before sending, the transport failed, or the
// body was not JSON. They are *Error values classified by ErrorType so the
// CLI can print a troubleshooting hint.
//
//	client := api.NewClient("http://localhost:3000")
//	resp, err := client.Login(ctx, api.LoginRequest{Email: e, Senha: s})
//	if err != nil {
//	    fmt.Println(api.GetShortErrorMessage(err))
//	    return
//	}
//	if !resp.Accepted(http.StatusOK) {
//	    fmt.Println(resp.Detail())
//	}
package api
