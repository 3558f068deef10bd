// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package util

import (
	"time"
)

type retryFunc func(interface{}) (interface{}, bool, error)

// LinearRetryImpl executes a functor every 'wait' until it either succeeds, fails in
// a way that should not be retried, or until the timeout is reached.  If the functor
// succeeds, the function returns false with no error.  If the functor fails in a way
// that should not be retried, the function returns true with an error.  If the function
// times out, it returns false as well as the last error from the functor.
func LinearRetryImpl(ftor retryFunc, arg interface{}, wait time.Duration, timeout time.Duration) (interface{}, bool, error) {
	begin := time.Now()

	var err error
	var failFast bool
	var ret interface{}
	for time.Since(begin) < timeout {
		ret, failFast, err = ftor(arg)
		if failFast && err != nil {
			return ret, failFast, err
		}

		if err == nil {
			return ret, false, nil
		}

		time.Sleep(wait)
	}

	return ret, false, err
}

// LinearRetry executes a functor every 100ms until it either succeeds, fails in
// a way that should not be retried, or until the timeout of 10 seconds is reached.
func LinearRetry(ftor retryFunc, arg interface{}) (interface{}, bool, error) {
	return LinearRetryTimeout(ftor, arg, 10*time.Second)
}

// LinearRetryTimeout executes a functor every 100ms until it either succeeds, fails in
// a way that should not be retried, or until the timeout is reached.
func LinearRetryTimeout(ftor retryFunc, arg interface{}, timeout time.Duration) (interface{}, bool, error) {
	return LinearRetryImpl(ftor, arg, 100*time.Millisecond, timeout)
}
