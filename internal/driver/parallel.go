package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/logging"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

// Extensions recognised as PeanoScript sources.
var Extensions = []string{".peano", ".ps"}

// BatchOptions configure CheckFiles.
type BatchOptions struct {
	Options
	Exercise *Exercise
	// Jobs limits concurrent checks; <= 0 means GOMAXPROCS.
	Jobs  int
	Cache *DiskCache
	// Progress receives per-file events. Called from worker goroutines.
	Progress func(Event)
}

// FileResult содержит результат проверки одного файла.
type FileResult struct {
	Path   string
	Result *Result
}

// ListFiles expands directories into their PeanoScript files. Explicit file
// arguments are kept whatever their extension. The result is sorted.
func ListFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && lo.Contains(Extensions, filepath.Ext(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	files = lo.Uniq(files)
	sort.Strings(files)
	return files, nil
}

// CheckFiles checks every file under paths in parallel. Per-file problems,
// including unreadable files, are reported in the file's Bag; the error
// return is for listing failures and cancellation.
func CheckFiles(ctx context.Context, paths []string, opts BatchOptions) (*source.FileSet, []FileResult, error) {
	files, err := ListFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}
	if _, err := resolveExercise(opts.Exercise); err != nil {
		return fileSet, nil, err
	}
	lg := logging.FromContext(ctx)
	emit := func(ev Event) {
		if opts.Progress != nil {
			opts.Progress(ev)
		}
	}

	// FileSet не потокобезопасен: загружаем всё заранее, в горутинах только Get.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error)
	for _, path := range files {
		emit(Event{File: path, Stage: StageLoad, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	copts := opts.Options
	copts.NoEval = true

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			results[i].Path = path

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i].Result = &Result{FileSet: fileSet, Bag: bag}
				emit(Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(start)})
				return nil
			}
			file := fileSet.Get(fileIDs[path])
			key := cacheKey(file.Hash, copts, opts.Exercise)

			if opts.Cache != nil {
				emit(Event{File: path, Stage: StageCache, Status: StatusWorking})
				var payload DiskPayload
				hit, err := opts.Cache.Get(key, &payload)
				if err != nil {
					lg.Warn("cache read failed", "file", path, "error", err)
				}
				if hit {
					lg.Debug("cache hit", "file", path)
					res := payload.restore(fileSet, file, opts.MaxDiagnostics)
					results[i].Result = res
					emit(doneEvent(path, StageCache, res, time.Since(start)))
					return nil
				}
			}

			fileOpts := copts
			fileOpts.Observer = func(ev PhaseEvent) {
				if ev.Status == PhaseStart {
					emit(Event{File: path, Stage: stageOfPhase(ev.Name), Status: StatusWorking})
				}
			}
			// проверка без console.log: выключатель только для полноты
			res, err := CompileFile(gctx, fileSet, file, fileOpts, opts.Exercise, value.NewKillSwitch())
			if err != nil {
				emit(Event{File: path, Stage: StageCheck, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i].Result = res
			if opts.Cache != nil {
				if err := opts.Cache.Put(key, payloadOf(res)); err != nil {
					lg.Warn("cache write failed", "file", path, "error", err)
				}
			}
			emit(doneEvent(path, StageCheck, res, time.Since(start)))
			return nil
		})
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func doneEvent(path string, stage Stage, res *Result, elapsed time.Duration) Event {
	status := StatusDone
	if res.HasErrors() {
		status = StatusError
	}
	return Event{File: path, Stage: stage, Status: status, Elapsed: elapsed}
}
