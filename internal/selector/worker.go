package selector

import (
	"sync"

	"comparador/internal/model"
)

const maxWorkers = 8

// PickWinnersParallel produz a mesma saída de PickWinners distribuindo os
// grupos entre workers. Cada resultado vai para a posição do seu grupo.
func PickWinnersParallel(groups model.Groups, rules Rules, workers int) []model.Winner {
	if workers <= 1 || len(groups) < 2 {
		return PickWinners(groups, rules)
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	r := newRanker(rules)
	type slot struct {
		winner model.Winner
		ok     bool
	}
	slots := make([]slot, len(groups))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				w, ok := r.winner(groups[idx])
				slots[idx] = slot{winner: w, ok: ok}
			}
		}()
	}

	for i := range groups {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	winners := make([]model.Winner, 0, len(groups))
	for _, s := range slots {
		if s.ok {
			winners = append(winners, s.winner)
		}
	}
	return winners
}
