// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import "errors"

// WrapTransportFailure wraps err in a ConnectionError if any error in its
// chain is a TransportFailure. Other errors are left alone and the second
// result is false.
//
// Usage:
//
//	resp, err := httpClient.Do(req)
//	if err != nil {
//	    if connErr, ok := errors.WrapTransportFailure(err); ok {
//	        return connErr
//	    }
//	    return err
//	}
func WrapTransportFailure(err error) (*ConnectionError, bool) {
	if err == nil {
		return nil, false
	}

	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return connErr, true
	}

	var failure TransportFailure
	if !errors.As(err, &failure) {
		return nil, false
	}
	return NewConnectionError(failure), true
}

// AsClientError returns the first ClientError in err's chain.
func AsClientError(err error) (ClientError, bool) {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr, true
	}
	return nil, false
}

// IsClientError reports whether err's chain contains a ClientError.
func IsClientError(err error) bool {
	_, ok := AsClientError(err)
	return ok
}

// KindOf returns the kind of the first ClientError in err's chain.
func KindOf(err error) (Kind, bool) {
	clientErr, ok := AsClientError(err)
	if !ok {
		return "", false
	}
	return clientErr.Kind(), true
}

// IsRetryable reports whether the first ErrorClassifier in err's chain says
// the operation may succeed if repeated.
func IsRetryable(err error) bool {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.IsRetryable()
	}
	return false
}
