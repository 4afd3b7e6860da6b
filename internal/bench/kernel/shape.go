package kernel

import "fmt"

// Shape is the problem size of one operation. Level 1 uses N, level 2 uses
// M and N, level 3 uses M, N and K.
type Shape struct {
	Level Level
	M     int
	N     int
	K     int
}

func Vector(n int) Shape       { return Shape{Level: Level1, N: n} }
func MatVec(m, n int) Shape    { return Shape{Level: Level2, M: m, N: n} }
func MatMat(m, n, k int) Shape { return Shape{Level: Level3, M: m, N: n, K: k} }

// String is the descriptor shown in reports, e.g. "M=1024,N=1024".
func (s Shape) String() string {
	switch s.Level {
	case Level2:
		return fmt.Sprintf("M=%d,N=%d", s.M, s.N)
	case Level3:
		return fmt.Sprintf("M=%d,N=%d,K=%d", s.M, s.N, s.K)
	default:
		return fmt.Sprintf("N=%d", s.N)
	}
}
