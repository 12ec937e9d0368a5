// Copyright 2025 go-highway Authors
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

// Package math provides fast float32 approximations of exp and ln that run on
// hwy lane vectors.
//
// The kernels are core functions: they transform a group of independent
// vectors ("replicas") in place and are driven over arrays by the
// hwy/contrib/algo vector-map framework. All constants are broadcast into
// vectors once, when a kernel is constructed.
//
// # Exponential
//
// ExpKernel reduces x to t = x*log2(e), splits t into an integer part n and a
// fraction f in [-0.5, 0.5], evaluates a degree-5 polynomial p(f) ≈ 2^f and
// returns p * 2^n by adjusting the exponent field (hwy.Scale). Results are
// accurate to ExpMaxRelError for x in [-87, 88]. Inputs that overflow or
// underflow the float32 exponent range are not clamped.
//
// # Logarithm
//
// LogKernel splits x into its exponent n and mantissa a in [1, 2), looks up
// b ≈ 1/a and ln(b) in a 2^L entry table indexed by the top L mantissa bits,
// and evaluates ln(1+c) for the small residual c = a*b - 1:
//
//	ln(x) = n*ln(2) - ln(b) + ln(1+c)
//
// Results are accurate to LogMaxAbsError for positive normal x. Zero,
// negative, subnormal, NaN and Inf inputs produce unspecified values; callers
// must filter them.
//
// # Scalar references
//
// ExpScalar and LogScalar run the exact per-lane operation sequence of the
// kernels on a single float32. Vector and scalar results are bit-identical.
//
// # Coefficients and tables
//
// ExpCoeffsMaple and ExpCoeffsSollya are the two published coefficient sets
// for 2^f; FitExp2 recomputes such a set by least squares. NewLogTable builds
// the log lookup tables from their closed form, so the table size is a
// parameter rather than a fixed blob.
package math
