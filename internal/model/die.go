package model

import "math"

// DefaultFaces is the die the tracker records: a d20.
const DefaultFaces = 20

// Die describes a fair die with faces numbered 1..Faces.
type Die struct {
	Faces int
}

// D20 returns the default twenty-sided die.
func D20() Die {
	return Die{Faces: DefaultFaces}
}

// IdealMean is the expected value of a single roll.
func (d Die) IdealMean() float64 {
	return float64(d.Faces+1) / 2
}

// IdealStdDev is the standard deviation of a single roll of a fair die.
func (d Die) IdealStdDev() float64 {
	n := float64(d.Faces)
	return math.Sqrt((n*n - 1) / 12)
}

// UniformPct is the share of rolls each face gets on a fair die, in percent.
func (d Die) UniformPct() float64 {
	if d.Faces <= 0 {
		return 0
	}
	return 100 / float64(d.Faces)
}

// FaceValues lists the faces in ascending order.
func (d Die) FaceValues() []int {
	faces := make([]int, 0, d.Faces)
	for i := 1; i <= d.Faces; i++ {
		faces = append(faces, i)
	}
	return faces
}
