package dropzone

// Quantize snaps p to the nearest multiple of 10 within [0, 100].
func Quantize(p int) int {
	switch {
	case p <= 0:
		return 0
	case p >= 100:
		return 100
	}
	return (p + 5) / 10 * 10
}

var progressWidths = map[int]string{
	0:   "after:w-0",
	10:  "after:w-[10%]",
	20:  "after:w-[20%]",
	30:  "after:w-[30%]",
	40:  "after:w-[40%]",
	50:  "after:w-[50%]",
	60:  "after:w-[60%]",
	70:  "after:w-[70%]",
	80:  "after:w-[80%]",
	90:  "after:w-[90%]",
	100: "after:w-[100%]",
}

// ProgressWidthClass returns the Tailwind width class for the button fill at
// p percent. Tailwind only generates classes it finds verbatim in sources,
// hence the table instead of formatting.
func ProgressWidthClass(p int) string {
	return progressWidths[Quantize(p)]
}
