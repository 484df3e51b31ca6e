package common

import (
	"errors"
	"sync"
)

// Parallel runs every task in its own goroutine and waits for all of
// them. It returns how many failed and their joined errors.
func Parallel(tasks ...func() error) (int, error) {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	wg.Add(len(tasks))
	for _, task := range tasks {
		go func() {
			defer wg.Done()
			if err := task(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return len(errs), errors.Join(errs...)
}
