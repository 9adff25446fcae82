package view

// Band classifies a percentage score for display.
type Band struct {
	Label string
	Color string
}

// Clamp limits a score to [0, 100].
func Clamp(score float64) float64 {
	return min(max(score, 0), 100)
}

// BandFor returns the display band of score after clamping.
func BandFor(score float64) Band {
	switch s := Clamp(score); {
	case s >= 90:
		return Band{Label: "Excellent", Color: "success"}
	case s >= 80:
		return Band{Label: "Very Good", Color: "primary"}
	case s >= 70:
		return Band{Label: "Good", Color: "warning"}
	case s >= 60:
		return Band{Label: "Fair", Color: "error"}
	}
	return Band{Label: "Poor", Color: "error"}
}
