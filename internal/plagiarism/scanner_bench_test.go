package plagiarism

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
)

func BenchmarkDetectTokens(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	vocab := make([]string, 2000)
	for i := range vocab {
		vocab[i] = fmt.Sprintf("w%d", i)
	}
	src := randomDoc(r, vocab, 50000)
	suspect := randomDoc(r, vocab, 50000)
	for s := 0; s < 200; s++ {
		from, to := r.Intn(len(src)-30), r.Intn(len(suspect)-30)
		copy(suspect[to:to+30], src[from:from+30])
	}

	for _, mode := range []HashMode{HashPoly, HashXX} {
		for _, workers := range []int{1, 4, 8} {
			b.Run(fmt.Sprintf("%s/workers=%d", mode, workers), func(b *testing.B) {
				opts := DefaultOptions()
				opts.HashMode = mode
				opts.WorkerCount = workers
				d, err := NewDetector(opts)
				if err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := d.DetectTokens(context.Background(), suspect, src); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
