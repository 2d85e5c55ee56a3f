package podcast

// Windows returns the neighbors of eps[i] shown as related episodes.
//
// prev holds up to size episodes before i, closest first. next holds up to
// size episodes after i in feed order. Both are copies.
func Windows(eps []Episode, i, size int) (prev, next []Episode) {
	if i < 0 || i >= len(eps) || size <= 0 {
		return nil, nil
	}

	for j := i - 1; j >= 0 && j >= i-size; j-- {
		prev = append(prev, eps[j])
	}

	end := min(i+1+size, len(eps))
	for j := i + 1; j < end; j++ {
		next = append(next, eps[j])
	}

	return prev, next
}
