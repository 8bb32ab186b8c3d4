// SPDX-License-Identifier: MIT

package fit

// Test bridge: exposes unexported Fitter internals to package fit_test.

// DegreesOfFreedom_TestOnly forwards to degreesOfFreedom.
func (f *Fitter) DegreesOfFreedom_TestOnly() int { return f.degreesOfFreedom() }
