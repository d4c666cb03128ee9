package persist

import (
	"context"
	"fmt"
	"testing"

	"github.com/Humphrey-He/vanya/pkg/codec"
)

// BenchmarkSlotSave measures one snapshot write per engine and codec for
// carts of increasing size.
//
// BenchmarkSlotSave 针对不同引擎和编解码器，测量不同大小购物车的单次快照写入。
func BenchmarkSlotSave(b *testing.B) {
	ctx := context.Background()
	codecs := []codec.Codec{codec.NewJSONCodec(false), codec.NewGobCodec()}

	for engine, s := range storages(b) {
		for _, c := range codecs {
			for _, items := range []int{1, 10, 100} {
				state := cartState{Items: make([]string, items)}
				for i := range state.Items {
					state.Items[i] = fmt.Sprintf("product-%d", i)
				}
				slot := NewSlot[cartState](s, c, "bench-cart")

				b.Run(fmt.Sprintf("%s/%s/Items=%d", engine, c.Name(), items), func(b *testing.B) {
					b.ReportAllocs()
					for i := 0; i < b.N; i++ {
						if err := slot.Save(ctx, state); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		}
	}
}

// BenchmarkSlotLoad measures restoring a ten-item snapshot per engine.
//
// BenchmarkSlotLoad 针对每个引擎测量恢复十项快照的开销。
func BenchmarkSlotLoad(b *testing.B) {
	ctx := context.Background()
	state := cartState{Items: make([]string, 10)}

	for engine, s := range storages(b) {
		slot := NewSlot[cartState](s, nil, "bench-cart")
		if err := slot.Save(ctx, state); err != nil {
			b.Fatal(err)
		}

		b.Run(engine, func(b *testing.B) {
			b.ReportAllocs()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, ok, err := slot.Load(ctx); err != nil || !ok {
						b.Errorf("load: ok=%v err=%v", ok, err)
						return
					}
				}
			})
		})
	}
}
