package halcyon_test

import (
	"fmt"
	"log"

	"github.com/halcyonos/halcyon"
	"github.com/halcyonos/halcyon/errno"
	"github.com/halcyonos/halcyon/vfs"
)

// ExampleProcess_Read opens an in-memory file in a fresh process and reads
// it into guest memory.
func ExampleProcess_Read() {
	k := halcyon.NewKernel()
	p := k.NewProcess(4096)

	fd, errc := p.Open("greeting", vfs.NewMemFile([]byte("hello, guest")))
	if errc != errno.ESUCCESS {
		log.Fatal(errc)
	}

	n, errc := p.Read(p.NewThread(), fd, 0, 12)
	if errc != errno.ESUCCESS {
		log.Fatal(errc)
	}

	out, _ := p.AddressSpace().CopyIn(0, uint32(n))
	fmt.Println(string(out))

	// Output:
	// hello, guest
}
