package noise

import (
	"sync"
	"testing"
)

func TestUniformBounds(t *testing.T) {
	u := NewUniform(5, 0)
	for i := 0; i < 10000; i++ {
		v := u.Sample()
		if v < -5 || v > 5 {
			t.Fatalf("sample %v out of [-5, 5]", v)
		}
	}
}

func TestUniformNotConstant(t *testing.T) {
	u := NewUniform(5, 0)
	first := u.Sample()
	for i := 0; i < 100; i++ {
		if u.Sample() != first {
			return
		}
	}
	t.Fatalf("100 identical samples of %v", first)
}

func TestUniformSeededIsReproducible(t *testing.T) {
	a := NewUniform(5, 42)
	b := NewUniform(5, 42)
	for i := 0; i < 50; i++ {
		if x, y := a.Sample(), b.Sample(); x != y {
			t.Fatalf("sample %d differs: %v vs %v", i, x, y)
		}
	}
}

func TestUniformZeroAmplitude(t *testing.T) {
	u := NewUniform(0, 0)
	for i := 0; i < 10; i++ {
		if v := u.Sample(); v != 0 {
			t.Fatalf("expected 0, got %v", v)
		}
	}
}

func TestUniformNegativeAmplitude(t *testing.T) {
	u := NewUniform(-2, 7)
	for i := 0; i < 1000; i++ {
		if v := u.Sample(); v < -2 || v > 2 {
			t.Fatalf("sample %v out of [-2, 2]", v)
		}
	}
}

func TestUniformSeededConcurrent(t *testing.T) {
	u := NewUniform(5, 99)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if v := u.Sample(); v < -5 || v > 5 {
					t.Errorf("sample %v out of range", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
