package cpu

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/gpuq/gpuq/internal/hostbuf"
)

// The portable driver ships implementations for the kernel library under
// kernels/: elementwise add/sub over any grid shape and the tiled matrix
// product. All of them honor "-D VAR_TYPE=<type>" (default int) the same
// way the source texts do.

func init() {
	elemwise := func(table map[hostbuf.Kind]func(*Item)) Impl {
		return Impl{
			NumArgs: 3,
			Prepare: func(inv *Invocation) error {
				if err := prepareElemwise(inv); err != nil {
					return err
				}
				if table[inv.elem] == nil {
					return errors.Errorf("cpu: kernel %q: element type %s not supported", inv.Name, inv.elem.CLName())
				}
				return nil
			},
			Run: func(wi *Item) { table[wi.inv.elem](wi) },
		}
	}

	RegisterKernel("vector_add", elemwise(addRuns))
	RegisterKernel("matrix_add", elemwise(addRuns))
	RegisterKernel("vector_sub", elemwise(subRuns))
	RegisterKernel("matrix_sub", elemwise(subRuns))
	RegisterKernel("matrix_mul", Impl{
		NumArgs: 7,
		Prepare: prepareMatMul,
		Run:     func(wi *Item) { matMulRuns[wi.inv.elem](wi) },
	})
}

// number covers the element types the builtin kernels compute on.
// Half-precision is transport-only on this driver.
type number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func elemKindOrDefault(inv *Invocation) (hostbuf.Kind, error) {
	if _, ok := inv.Define("VAR_TYPE"); !ok {
		return hostbuf.Int32, nil
	}
	return inv.ElemKind("VAR_TYPE")
}

func prepareElemwise(inv *Invocation) error {
	elem, err := elemKindOrDefault(inv)
	if err != nil {
		return err
	}
	inv.elem = elem

	need := inv.Range.TotalGlobal() * elem.Size()
	for i := 0; i < 3; i++ {
		if got := len(inv.Bytes(i)); got < need {
			return errors.Errorf("cpu: kernel %q: argument %d holds %d bytes, needs %d", inv.Name, i, got, need)
		}
	}
	return nil
}

// linearID flattens the item's global position row-major, last dimension
// fastest, matching how the source kernels index flat arrays.
func linearID(wi *Item) int {
	id := 0
	for d := 0; d < wi.inv.Range.Dims(); d++ {
		id = id*wi.GlobalSize(d) + wi.GlobalID(d)
	}
	return id
}

func addItem[T number](wi *Item) {
	i := linearID(wi)
	a, b, c := Arg[T](wi, 0), Arg[T](wi, 1), Arg[T](wi, 2)
	c[i] = a[i] + b[i]
}

func subItem[T number](wi *Item) {
	i := linearID(wi)
	a, b, c := Arg[T](wi, 0), Arg[T](wi, 1), Arg[T](wi, 2)
	c[i] = a[i] - b[i]
}

var addRuns = map[hostbuf.Kind]func(*Item){
	hostbuf.Int8:    addItem[int8],
	hostbuf.Int16:   addItem[int16],
	hostbuf.Int32:   addItem[int32],
	hostbuf.Int64:   addItem[int64],
	hostbuf.Uint8:   addItem[uint8],
	hostbuf.Uint32:  addItem[uint32],
	hostbuf.Uint64:  addItem[uint64],
	hostbuf.Float32: addItem[float32],
	hostbuf.Float64: addItem[float64],
}

var subRuns = map[hostbuf.Kind]func(*Item){
	hostbuf.Int8:    subItem[int8],
	hostbuf.Int16:   subItem[int16],
	hostbuf.Int32:   subItem[int32],
	hostbuf.Int64:   subItem[int64],
	hostbuf.Uint8:   subItem[uint8],
	hostbuf.Uint32:  subItem[uint32],
	hostbuf.Uint64:  subItem[uint64],
	hostbuf.Float32: subItem[float32],
	hostbuf.Float64: subItem[float64],
}

// prepareMatMul checks the tiled product's contract: square work-groups of
// BLOCK_SIZE, two local tiles of BLOCK_SIZE^2 elements, int scalars for the
// shared extent and the output width, and a shared extent divisible by the
// tile. Global range is (output cols, output rows).
func prepareMatMul(inv *Invocation) error {
	elem, err := elemKindOrDefault(inv)
	if err != nil {
		return err
	}
	inv.elem = elem
	if matMulRuns[elem] == nil {
		return errors.Errorf("cpu: kernel %q: element type %s not supported", inv.Name, elem.CLName())
	}

	block, err := inv.DefineInt("BLOCK_SIZE")
	if err != nil {
		return err
	}
	r := inv.Range
	if r.Dims() != 2 {
		return errors.Errorf("cpu: kernel %q: needs a 2D range, got %dD", inv.Name, r.Dims())
	}
	if len(r.Local) != 2 || r.Local[0] != block || r.Local[1] != block {
		return errors.Errorf("cpu: kernel %q: local range must be (%d, %d) to match BLOCK_SIZE", inv.Name, block, block)
	}

	for _, i := range []int{3, 4} {
		if inv.Args[i].Size < block*block*elem.Size() {
			return errors.Errorf("cpu: kernel %q: local tile %d holds %d bytes, needs %d", inv.Name, i, inv.Args[i].Size, block*block*elem.Size())
		}
	}
	for _, i := range []int{5, 6} {
		if len(inv.Args[i].Value) != 4 {
			return errors.Errorf("cpu: kernel %q: scalar %d must be a 4-byte int", inv.Name, i)
		}
	}

	shared := int(int32(binary.NativeEndian.Uint32(inv.Args[5].Value)))
	if shared <= 0 || shared%block != 0 {
		return errors.Errorf("cpu: kernel %q: shared extent %d not divisible by BLOCK_SIZE %d", inv.Name, shared, block)
	}

	rows, cols := r.Global[1], r.Global[0]
	m1Need := rows * shared * elem.Size()
	m2Need := shared * cols * elem.Size()
	resNeed := rows * cols * elem.Size()
	if got := len(inv.Bytes(0)); got < m1Need {
		return errors.Errorf("cpu: kernel %q: left matrix holds %d bytes, needs %d", inv.Name, got, m1Need)
	}
	if got := len(inv.Bytes(1)); got < m2Need {
		return errors.Errorf("cpu: kernel %q: right matrix holds %d bytes, needs %d", inv.Name, got, m2Need)
	}
	if got := len(inv.Bytes(2)); got < resNeed {
		return errors.Errorf("cpu: kernel %q: result holds %d bytes, needs %d", inv.Name, got, resNeed)
	}
	return nil
}

func matMulItem[T number](wi *Item) {
	block := wi.LocalSize(0)
	col, row := wi.GlobalID(0), wi.GlobalID(1)
	tx, ty := wi.LocalID(0), wi.LocalID(1)

	m1, m2, res := Arg[T](wi, 0), Arg[T](wi, 1), Arg[T](wi, 2)
	tile1, tile2 := LocalArg[T](wi, 3), LocalArg[T](wi, 4)
	shared := int(ScalarArg[int32](wi, 5))
	width := int(ScalarArg[int32](wi, 6))

	var sum T
	for t := 0; t < shared/block; t++ {
		tile1[ty*block+tx] = m1[row*shared+t*block+tx]
		tile2[ty*block+tx] = m2[(t*block+ty)*width+col]
		wi.Barrier()
		for k := 0; k < block; k++ {
			sum += tile1[ty*block+k] * tile2[k*block+tx]
		}
		wi.Barrier()
	}
	res[row*width+col] = sum
}

var matMulRuns = map[hostbuf.Kind]func(*Item){
	hostbuf.Int32:   matMulItem[int32],
	hostbuf.Int64:   matMulItem[int64],
	hostbuf.Uint32:  matMulItem[uint32],
	hostbuf.Uint64:  matMulItem[uint64],
	hostbuf.Float32: matMulItem[float32],
	hostbuf.Float64: matMulItem[float64],
}
