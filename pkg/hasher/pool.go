package hasher

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/moyu-x/media-dedup/internal"
	"github.com/moyu-x/media-dedup/pkg/logger"
)

type Task struct {
	Path string
	Size int64
}

type Result struct {
	Path   string
	Digest string
	Bytes  int64
	Error  error
}

// Pool 并行计算同一目录内文件的指纹
// 结果按路径取回，由调用方按字典序应用，保证"首次观察"顺序可复现
type Pool struct {
	workers int
	tasks   chan Task
	results chan Result
	wg      sync.WaitGroup
	pool    *ants.Pool
}

func NewPool(workers int) *Pool {
	logger.Get().Info().Msgf("创建指纹计算池，工作线程数: %d", workers)
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, internal.DefaultBufferSize),
		results: make(chan Result, internal.DefaultBufferSize),
	}
}

func (p *Pool) Start() error {
	logger.Get().Debug().Msgf("启动指纹计算池，启动 %d 个工作线程", p.workers)

	var err error
	p.pool, err = ants.NewPool(p.workers)
	if err != nil {
		logger.Get().Error().Err(err).Msg("创建 goroutine 池失败")
		return err
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		if err := p.pool.Submit(p.worker); err != nil {
			p.wg.Done()
			return err
		}
	}
	return nil
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		digest, n, err := Fingerprint(task.Path)
		p.results <- Result{
			Path:   task.Path,
			Digest: digest,
			Bytes:  n,
			Error:  err,
		}
	}
}

func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

func (p *Pool) Results() <-chan Result {
	return p.results
}

// HashAll 提交一批文件并等待全部结果，按路径索引返回
// 目录是串行处理的，因此同一时刻只有一批任务在池中
// 提交放在单独的 goroutine 里，超大目录不会因通道缓冲写满而死锁
func (p *Pool) HashAll(paths []string) map[string]Result {
	go func() {
		for _, path := range paths {
			p.Submit(Task{Path: path})
		}
	}()

	out := make(map[string]Result, len(paths))
	for range paths {
		r := <-p.results
		out[r.Path] = r
	}
	return out
}

func (p *Pool) Close() {
	logger.Get().Debug().Msg("关闭指纹计算池")

	close(p.tasks)
	p.wg.Wait()

	if p.pool != nil {
		p.pool.Release()
	}

	close(p.results)
}
