package split

import "github.com/pbanos/sapling/dataset"

/*
Partition reorders rows in place so that the rows the split sends left come
first and returns the number of them. The relative order within each side is
not kept.
*/
func Partition(fr *dataset.Frame, rows []int, s *Split) int {
	c := fr.Column(s.Column)
	i, j := 0, len(rows)-1
	for i <= j {
		if s.Left(c.Value(rows[i])) {
			i++
			continue
		}
		rows[i], rows[j] = rows[j], rows[i]
		j--
	}
	return i
}
