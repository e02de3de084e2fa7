package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded;charset=UTF-8"
	contentTypeJSON = "application/json"
)

// execute signs req and sends it. GET places the signed parameters in the
// query string and POST in a form body. PUT and DELETE sign an empty
// parameter set, carry the OAuth parameters in the query string and send
// the caller's data as a JSON body.
func (c *Client) execute(ctx context.Context, req *Request) (*resty.Response, error) {
	method := strings.ToUpper(req.Method)
	base, _, _ := strings.Cut(req.URL, "?")

	var signParams Params
	switch method {
	case http.MethodGet, http.MethodPost:
		signParams = req.Params
	case http.MethodPut, http.MethodDelete:
	default:
		return nil, newUnsupportedVerbError(base, req.Method)
	}

	signed, err := c.signer.Sign(method, req.URL, c.token, signParams.Values())
	if err != nil {
		return nil, &Error{Kind: KindValidation, URL: base, Message: "invalid request URL", Err: err}
	}

	r := c.http.R().SetContext(ctx)
	for k, vs := range req.Header {
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}

	target := base + "?" + signed
	switch method {
	case http.MethodPost:
		target = base
		r.SetHeader("Content-Type", contentTypeForm).SetBody(signed)
	case http.MethodPut, http.MethodDelete:
		r.SetHeader("Content-Type", contentTypeJSON)
		if req.Params != nil {
			body, err := json.Marshal(req.Params)
			if err != nil {
				return nil, &Error{Kind: KindValidation, URL: base, Message: "encode request body", Err: err}
			}
			r.SetBody(body)
		}
	}

	resp, err := r.Execute(method, target)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, base, err)
	}
	return resp, nil
}
