package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

var ErrEmptyDataset = errors.New("dataset is empty")

// StratifiedSplit partitions ds into train and test subsets, taking
// round(fraction*n) records of each outcome class for training. The same
// seed always produces the same split. Both subsets keep the original
// record order.
func StratifiedSplit(ds Dataset, fraction float64, seed uint64) (Dataset, Dataset, error) {
	if len(ds) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if math.IsNaN(fraction) || fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("train fraction must be in (0, 1), got %v", fraction)
	}

	var pos, neg []int
	for i, r := range ds {
		if r.Outcome {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	trainIdx := make([]int, 0, len(ds))
	testIdx := make([]int, 0, len(ds))
	for _, class := range [][]int{pos, neg} {
		rng.Shuffle(len(class), func(i, j int) {
			class[i], class[j] = class[j], class[i]
		})
		cut := int(math.Round(fraction * float64(len(class))))
		trainIdx = append(trainIdx, class[:cut]...)
		testIdx = append(testIdx, class[cut:]...)
	}

	return pick(ds, trainIdx), pick(ds, testIdx), nil
}

func pick(ds Dataset, idx []int) Dataset {
	sort.Ints(idx)
	out := make(Dataset, len(idx))
	for i, j := range idx {
		out[i] = ds[j]
	}
	return out
}
