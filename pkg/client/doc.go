// Package client provides a signed HTTP client for the oDesk REST API.
//
// Every call is signed with OAuth 1.0a (HMAC-SHA1) using the application's
// consumer credentials and, when present, the user's access token. The client
// places the signed parameters where the service expects them:
//   - GET sends them in the query string
//   - POST sends them as a form-encoded body
//   - PUT and DELETE sign only the protocol parameters, send those in the
//     query string and send the caller's data as a JSON body
//
// # Basic Usage
//
//	c, err := client.New(oauth1.Credentials{ConsumerKey: key, ConsumerSecret: secret},
//	    client.WithToken(accessToken, accessSecret),
//	    client.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	hr := client.NewRouter(c, client.Namespace{Root: client.RootAPI, Prefix: "hr", Version: 2})
//	res, err := hr.Get(ctx, "jobs/123", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Get("job.title"))
//
// Resource URLs outside the GDS tree get a ".json" suffix automatically.
//
// # Error Handling
//
// Non-200 responses and local failures are returned as *Error. The service's
// X-Odesk-Error-Code and X-Odesk-Error-Message headers are folded into the
// message as "Code <code>: <message>":
//
//	_, err := hr.Get(ctx, "jobs/123", nil)
//	switch {
//	case client.IsNotFound(err):
//	    // 404
//	case client.IsUnauthorized(err):
//	    // token revoked or expired
//	case client.IsMalformedResponse(err):
//	    // 200 with a body that is not JSON
//	}
package client
