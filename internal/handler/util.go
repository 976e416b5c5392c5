package handler

import "strconv"

func atoiH(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
