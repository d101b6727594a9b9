package master

// Distribute assigns files round robin: file i goes to list i % workers. It
// always returns exactly workers lists, each keeping discovery order.
func Distribute(files []string, workers int) [][]string {
	lists := make([][]string, workers)
	for i, file := range files {
		lists[i%workers] = append(lists[i%workers], file)
	}
	return lists
}
