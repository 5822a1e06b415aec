// Package client talks to the portal REST backend.
//
// # Overview
//
// Client is the API contract used by the login flow. HTTPClient implements it
// over net/http and wraps every call in two interceptors:
//
//  1. Request: attaches the bearer token from the session store, the
//     DeviceType header and the JSON content type.
//  2. Response: on a transport failure or HTTP 401 it notifies the user,
//     clears the session and schedules one redirect to the logout URL. On the
//     login screen it only notifies.
//
// # Error Handling
//
// Transport failures return ErrUnavailable and 401 returns ErrUnauthorized.
// A 400 carrying a field error map returns *ValidationError; any other
// failure status, or an envelope flagged as an error, returns *APIError.
// Use errors.Is / errors.As to match them.
//
// There is no retry, backoff or request replay.
package client
