package metrics

import "github.com/balkashynov/bankroll/internal/models"

// smoothingThreshold is the series length above which charts are thinned
const smoothingThreshold = 25

// Point is one chart coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ChartCoordinates turns the cumulative bankroll into chart points. Series
// longer than 25 points keep every 2nd and every 5th value; indexes that
// are both appear twice. The kept values are re-indexed from 0.
func ChartCoordinates(sessions []models.Session) []Point {
	series := CumulativeSeries(sessions)
	if len(series) <= smoothingThreshold {
		return Coordinates(series)
	}

	shortened := make([]int, 0, len(series)/2+len(series)/5+2)
	for i, v := range series {
		if i%2 == 0 {
			shortened = append(shortened, v)
		}
		if i%5 == 0 {
			shortened = append(shortened, v)
		}
	}
	return Coordinates(shortened)
}

// Coordinates indexes every value of series without thinning
func Coordinates(series []int) []Point {
	points := make([]Point, len(series))
	for i, v := range series {
		points[i] = Point{X: i, Y: v}
	}
	return points
}

// Values returns the Y of every point
func Values(points []Point) []int {
	values := make([]int, len(points))
	for i, p := range points {
		values[i] = p.Y
	}
	return values
}
