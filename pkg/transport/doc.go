// Package transport defines the transport-level failures reported by the
// workflow server client and the helpers that produce them.
//
// Every failure type implements errors.TransportFailure, which is what
// errors.NewConnectionError accepts:
//
//	resp, err := httpClient.Do(req)
//	if err != nil {
//	    if connErr, ok := errors.WrapTransportFailure(transport.Normalize(err)); ok {
//	        return connErr
//	    }
//	    return err
//	}
//
// Normalize maps the errors produced by net/http (timeouts, refused or reset
// connections, truncated streams, malformed status lines and headers) onto
// these types. New failure types only need to implement the marker interface.
//
// Capture detaches the status and body of a response so it can be described
// by errors.NewUnexpectedServerResponse after the connection is released.
package transport
