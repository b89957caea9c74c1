package aggregator

import "github.com/hamamukku/reviewtrust-backend/internal/signals"

// Matrix is a 4x4 confusion matrix indexed [actual][predicted]. The zero
// value is empty and ready to use.
type Matrix struct {
	cells [signals.LabelCount][signals.LabelCount]int
}

func NewMatrix() *Matrix {
	return &Matrix{}
}

// Add records one batch. Invalid labels are ignored.
func (m *Matrix) Add(actual, predicted signals.Label) {
	if !actual.IsValid() || !predicted.IsValid() {
		return
	}
	m.cells[actual][predicted]++
}

// Merge adds other into m cell by cell.
func (m *Matrix) Merge(other *Matrix) {
	if other == nil {
		return
	}
	for a := range m.cells {
		for p := range m.cells[a] {
			m.cells[a][p] += other.cells[a][p]
		}
	}
}

func (m *Matrix) Count(actual, predicted signals.Label) int {
	if !actual.IsValid() || !predicted.IsValid() {
		return 0
	}
	return m.cells[actual][predicted]
}

// Totals returns the number of batches whose ground truth is actual.
func (m *Matrix) Totals(actual signals.Label) int {
	if !actual.IsValid() {
		return 0
	}
	n := 0
	for _, c := range m.cells[actual] {
		n += c
	}
	return n
}

func (m *Matrix) Total() int {
	n := 0
	for _, l := range signals.Labels {
		n += m.Totals(l)
	}
	return n
}

func (m *Matrix) Correct() int {
	n := 0
	for _, l := range signals.Labels {
		n += m.cells[l][l]
	}
	return n
}

// Accuracy is Correct/Total, or 0 for an empty matrix.
func (m *Matrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Correct()) / float64(total)
}

// Recall reports ok=false when no batch carries the label as ground truth.
func (m *Matrix) Recall(actual signals.Label) (float64, bool) {
	total := m.Totals(actual)
	if total == 0 {
		return 0, false
	}
	return float64(m.cells[actual][actual]) / float64(total), true
}
