package hostanalysis

import (
	"runtime"
	"sync"

	"github.com/activecm/lgprobe/pkg/trace"
	"github.com/activecm/lgprobe/util"
	"github.com/pbnjay/memory"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

type (
	//Runner analyzes many hosts concurrently and hands each report to a
	//Repository
	Runner struct {
		analyzer *Analyzer
		repo     Repository
		threads  int
		log      *log.Logger
		//Progress shows a progress bar on stdout
		Progress bool
	}

	//Summary counts the outcome of a run
	Summary struct {
		Hosts      int
		Skipped    int
		Located    int
		Failed     int
		SaveErrors int
	}

	//hostJob is one host's logs waiting for analysis
	hostJob struct {
		host string
		logs trace.Logs
	}

	//worker analyzes hosts from a channel
	worker struct {
		analyzer         *Analyzer
		analyzedCallback func(*Report) // called on each analyzed report
		analysisChannel  chan hostJob  // holds unanalyzed hosts
		analysisWg       sync.WaitGroup
	}
)

//DefaultThreads sizes the worker pool by CPU count, allowing one worker per
//GiB of system memory since each holds a full host trace set
func DefaultThreads() int {
	threads := util.Max(1, runtime.NumCPU()/2)
	if gib := int(memory.TotalMemory() >> 30); gib > 0 {
		threads = util.Min(threads, gib)
	}
	return threads
}

//NewRunner creates a Runner. threads below 1 selects DefaultThreads.
func NewRunner(analyzer *Analyzer, repo Repository, threads int, logger *log.Logger) *Runner {
	if threads < 1 {
		threads = DefaultThreads()
	}
	return &Runner{
		analyzer: analyzer,
		repo:     repo,
		threads:  threads,
		log:      logger,
	}
}

//Run analyzes every host in set. Hosts never share state, so a failure on
//one host does not affect the others.
func (r *Runner) Run(set trace.Set) (Summary, error) {
	var summary Summary
	if err := r.repo.Prepare(); err != nil {
		return summary, err
	}

	hosts := set.Hosts()

	var p *mpb.Progress
	var bar *mpb.Bar
	if r.Progress {
		p = mpb.New(mpb.WithWidth(20))
		bar = p.AddBar(int64(len(hosts)),
			mpb.PrependDecorators(
				decor.Name("\t[-] Analyzing Hosts:", decor.WC{W: 30, C: decor.DidentRight}),
				decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	var mu sync.Mutex
	collect := func(report *Report) {
		err := r.repo.Save(report)

		mu.Lock()
		defer mu.Unlock()
		summary.Hosts++
		if report.Skipped {
			summary.Skipped++
		}
		summary.Located += len(report.SuccessfulSites)
		summary.Failed += len(report.FailedCandidates)
		if err != nil {
			summary.SaveErrors++
			r.log.WithFields(log.Fields{
				"Module": "hostanalysis",
				"Host":   report.Host,
			}).Error(err)
		}
		if bar != nil {
			bar.IncrBy(1)
		}
	}

	w := newWorker(r.analyzer, collect)
	for i := 0; i < r.threads; i++ {
		w.start()
	}

	for _, host := range hosts {
		w.collect(hostJob{host: host, logs: set[host]})
	}
	w.close()

	if p != nil {
		p.Wait()
	}

	return summary, r.repo.Close()
}

func newWorker(analyzer *Analyzer, analyzedCallback func(*Report)) *worker {
	return &worker{
		analyzer:         analyzer,
		analyzedCallback: analyzedCallback,
		analysisChannel:  make(chan hostJob),
	}
}

//collect sends a host to be analyzed
func (w *worker) collect(job hostJob) {
	w.analysisChannel <- job
}

//close waits for the analysis threads to finish
func (w *worker) close() {
	close(w.analysisChannel)
	w.analysisWg.Wait()
}

//start kicks off a new analysis thread
func (w *worker) start() {
	w.analysisWg.Add(1)
	go func() {
		defer w.analysisWg.Done()
		for job := range w.analysisChannel {
			w.analyzedCallback(w.analyzer.AnalyzeHost(job.host, job.logs))
		}
	}()
}
