// Package analysis extracts frequency content from sampled run
// diagnostics, mainly to spot orbital periods in energy and momentum
// traces.
package analysis

import (
	"math"
	"math/cmplx"
)

func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		return data
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the one-sided magnitude spectrum of the
// series. The input is mean-subtracted, Hann-windowed, and zero-padded
// to the next power of two, so callers can pass raw sample columns.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := 1
	for n < len(data) {
		n *= 2
	}

	padded := make([]complex128, n)
	for i, v := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(data)-1)))
		if len(data) == 1 {
			window = 1
		}
		padded[i] = complex((v-mean)*window, 0)
	}

	spectrum := fft(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest frequency in hz and its
// power, given the spacing between samples in seconds. The zero bin is
// skipped; a flat series reports zero.
func DominantFrequency(data []float64, sampleDt float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleDt <= 0 {
		return 0, 0
	}

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0, 0
	}

	n := len(ps) * 2
	freq := float64(maxIdx) / (float64(n) * sampleDt)
	return freq, maxPower
}
