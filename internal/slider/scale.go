package slider

import "math"

// ScaleValue is one label on the track scale.
type ScaleValue struct {
	Index   int
	Raw     float64
	Display string
}

// maxScaleGaps bounds the step count a scale is computed over. Wider
// ranges show only their end points.
const maxScaleGaps = 1 << 40

// scalePrimes are the preferred label spacings, in order.
var scalePrimes = []int{3, 5, 7, 11}

// ScaleValues lists the labels shown under the track.
//
// With fixed values every label is shown and its raw value is its index.
// Otherwise the range is thinned: the label spacing is a multiple of the step
// chosen so that the number of gaps divides evenly by a small prime where
// possible. A range of more than maxScaleGaps steps shows only Min and Max;
// a range whose step count overflows shows nothing. Labels overlapping on screen are a layout concern and are not
// handled here.
func ScaleValues(t TrackState) []ScaleValue {
	if len(t.FixedValues) > 0 {
		out := make([]ScaleValue, len(t.FixedValues))
		for i, v := range t.FixedValues {
			out[i] = ScaleValue{Index: i, Raw: float64(i), Display: v}
		}
		return out
	}
	if !(t.Step > 0) || !(t.Max > t.Min) {
		return nil
	}

	gaps := math.Round((t.Max - t.Min) / t.Step)
	if math.IsNaN(gaps) || math.IsInf(gaps, 0) {
		return nil
	}
	if gaps > maxScaleGaps {
		return []ScaleValue{
			{Index: 0, Raw: t.Min, Display: t.Prefix + formatNumber(t.Min) + t.Postfix},
			{Index: 1, Raw: t.Max, Display: t.Prefix + formatNumber(t.Max) + t.Postfix},
		}
	}

	accuracy := decimals(t.Step)
	length := int(gaps) + 1
	lastIndex := length - 1

	delimiter := scaleDelimiter(lastIndex, scalePrimes)
	multiplier := max(lastIndex/delimiter, 1)
	if multiplier < 15 {
		multiplier = min(multiplier, delimiter)
	}

	count := (length + multiplier - 1) / multiplier
	out := make([]ScaleValue, count)
	for i := range out {
		raw := toFixed(t.Step*float64(i*multiplier)+t.Min, accuracy)
		out[i] = ScaleValue{
			Index:   i,
			Raw:     raw,
			Display: t.Prefix + formatNumber(raw) + t.Postfix,
		}
	}
	return out
}

// scaleDelimiter returns the first prime dividing dividend, trying
// dividend-1, dividend-2 and so on until one does. Zero is divisible by
// every prime, so the search always ends.
func scaleDelimiter(dividend int, primes []int) int {
	for ; dividend > 0; dividend-- {
		for _, p := range primes {
			if dividend%p == 0 {
				return p
			}
		}
	}
	return primes[0]
}
