// Buyonix Recommender - Collaborative Filtering Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/buyonix-recommender

package recommend

import (
	"fmt"
	"sort"
)

// Matrix is a dense user-item strength matrix. Rows follow UserIDs and
// columns follow ProductIDs; both orders are fixed at build time and are the
// only link between factor rows and identities. A zero cell means "no
// observed interaction".
type Matrix struct {
	UserIDs    []string
	ProductIDs []string
	Values     [][]float64

	userIndex    map[string]int
	productIndex map[string]int
}

// BuildMatrix builds the user-item matrix from deduplicated interactions.
// User and product ids are sorted lexicographically.
func BuildMatrix(interactions []Interaction) (*Matrix, error) {
	if len(interactions) == 0 {
		return nil, fmt.Errorf("%w: no interactions to build a matrix from", ErrInput)
	}

	userSet := make(map[string]struct{})
	productSet := make(map[string]struct{})
	for _, in := range interactions {
		userSet[in.UserID] = struct{}{}
		productSet[in.ProductID] = struct{}{}
	}

	m := newMatrix(sortedKeys(userSet), sortedKeys(productSet))
	for _, in := range interactions {
		m.Values[m.userIndex[in.UserID]][m.productIndex[in.ProductID]] = in.Strength
	}

	return m, nil
}

// newMatrix allocates a zero matrix over the given axes and builds the
// id -> index maps.
func newMatrix(userIDs, productIDs []string) *Matrix {
	m := &Matrix{
		UserIDs:    userIDs,
		ProductIDs: productIDs,
		Values:     make([][]float64, len(userIDs)),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, len(productIDs))
	}
	m.userIndex = indexOf(userIDs)
	m.productIndex = indexOf(productIDs)
	return m
}

// Rows returns the number of users.
func (m *Matrix) Rows() int { return len(m.UserIDs) }

// Cols returns the number of products.
func (m *Matrix) Cols() int { return len(m.ProductIDs) }

// UserIndex returns the row of a user.
func (m *Matrix) UserIndex(userID string) (int, bool) {
	i, ok := m.userIndex[userID]
	return i, ok
}

// ProductIndex returns the column of a product.
func (m *Matrix) ProductIndex(productID string) (int, bool) {
	i, ok := m.productIndex[productID]
	return i, ok
}

// At returns the strength for a (user, product) pair, or 0 if either id is
// unknown.
func (m *Matrix) At(userID, productID string) float64 {
	u, ok := m.userIndex[userID]
	if !ok {
		return 0
	}
	p, ok := m.productIndex[productID]
	if !ok {
		return 0
	}
	return m.Values[u][p]
}

// NonZero returns the number of observed cells.
func (m *Matrix) NonZero() int {
	n := 0
	for _, row := range m.Values {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// Sparsity returns the fraction of cells with no observed interaction.
func (m *Matrix) Sparsity() float64 {
	total := m.Rows() * m.Cols()
	if total == 0 {
		return 0
	}
	return float64(total-m.NonZero()) / float64(total)
}

// clone returns a deep copy of the matrix.
func (m *Matrix) clone() *Matrix {
	c := newMatrix(append([]string(nil), m.UserIDs...), append([]string(nil), m.ProductIDs...))
	for i, row := range m.Values {
		copy(c.Values[i], row)
	}
	return c
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indexOf(ids []string) map[string]int {
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}
