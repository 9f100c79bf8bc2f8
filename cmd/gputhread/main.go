// Command gputhread runs several clients on one shared graphics thread.
//
// Each client gets its own context and surface, renders a number of frames
// on the shared thread and then releases its reference. The GPU context is
// destroyed after the last client has released.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputhread"
	"github.com/gogpu/gputhread/platform/halgpu"
	"github.com/gogpu/gputhread/platform/headless"
)

const clearShader = `
@group(0) @binding(0) var<storage, read_write> pixels: array<u32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    pixels[id.x] = 0xff000000u;
}
`

func main() {
	var (
		platformName = flag.String("platform", "headless", "context platform: hal or headless")
		clients      = flag.Int("clients", 3, "number of clients sharing the thread")
		frames       = flag.Int("frames", 10, "frames rendered per client")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gputhread.SetLogger(logger)

	if *clients < 1 {
		log.Fatalf("gputhread: -clients must be at least 1, got %d", *clients)
	}

	platform, err := newPlatform(*platformName, logger)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(platform, *clients, *frames); err != nil {
		log.Fatal(err)
	}
}

func newPlatform(name string, logger *slog.Logger) (gputhread.Platform, error) {
	switch name {
	case "hal":
		return halgpu.New(halgpu.WithLogger(logger)), nil
	case "headless":
		return headless.New(), nil
	default:
		return nil, fmt.Errorf("gputhread: unknown platform %q", name)
	}
}

func run(platform gputhread.Platform, clients, frames int) error {
	refs := gputhread.NewRefCount(clients)
	th, err := gputhread.Create(platform, gputhread.ConfigPixelRGBABuffer(),
		gputhread.WithReleaseMonitor(refs),
		gputhread.WithName("demo-gl"),
	)
	if err != nil {
		return err
	}

	var rendered atomic.Int64
	var wg sync.WaitGroup
	errs := make(chan error, 2*clients)

	for i := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runClient(th, i, frames, &rendered); err != nil {
				errs <- fmt.Errorf("client %d: %w", i, err)
			}
			if err := th.Release(); err != nil {
				errs <- fmt.Errorf("client %d release: %w", i, err)
			}
		}()
	}
	wg.Wait()
	close(errs)

	if err, ok := <-errs; ok {
		return err
	}

	select {
	case <-th.Done():
	case <-time.After(10 * time.Second):
		return fmt.Errorf("gputhread: thread did not stop")
	}

	gputhread.Logger().Info("demo finished",
		"clients", clients,
		"frames", rendered.Load(),
	)
	return nil
}

// runClient renders frames on the shared thread with its own context.
func runClient(th *gputhread.Thread, id, frames int, rendered *atomic.Int64) error {
	c, err := th.NewContext()
	if err != nil {
		return err
	}
	defer c.Release()

	if err := c.CreatePbufferSurface(256+id, 256); err != nil {
		return err
	}

	q := th.Queue()
	for frame := range frames {
		var frameErr error
		err := q.PostAndWait(context.Background(), func() {
			if frameErr = c.MakeCurrent(); frameErr != nil {
				return
			}
			if frame == 0 {
				frameErr = warmUp(c)
			}
			rendered.Add(1)
		})
		if err != nil {
			return err
		}
		if frameErr != nil {
			return frameErr
		}
	}
	return nil
}

// warmUp compiles the clear shader when the context runs on real hardware.
func warmUp(c *gputhread.Context) error {
	hc, ok := c.Connection().Native().(*halgpu.Context)
	if !ok {
		return nil
	}
	m, err := hc.CompileShader("clear", clearShader)
	if err != nil {
		return err
	}
	hc.DestroyShader(m)
	return nil
}
