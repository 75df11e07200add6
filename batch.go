package gmlpp

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of compiling one file in a batch.
type Result struct {
	Err    error  // Compile or I/O failure, nil on success
	Source string // Input path
	Output string // Written output path, empty on failure
}

// CompileFiles compiles independent source files concurrently. A failing file
// never stops the others; once ctx is done, files not yet started report ctx.Err().
// Results are returned in input order.
func CompileFiles(ctx context.Context, paths []string, opt *BatchOptions) []Result {
	bopt := opt.normalize()
	log := bopt.Logger

	results := make([]Result, len(paths))
	g := new(errgroup.Group)
	g.SetLimit(bopt.Workers)

	for i, path := range paths {
		results[i].Source = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			start := time.Now()
			out, err := CompileFile(path, bopt.Compile)
			if err != nil {
				log.Error("compile failed", "source", path, "err", err)
				results[i].Err = err
				return nil
			}

			log.Debug("compiled", "source", path, "output", out, "took", time.Since(start))
			results[i].Output = out
			return nil
		})
	}

	// Workers never return errors; failures live in results.
	_ = g.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}

	return out
}
