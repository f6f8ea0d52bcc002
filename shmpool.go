package grim

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/vremyavnikuda/grim-rs/internal/wire"
)

// shmBuffer is the Shared-Memory Buffer Pool's product: an anonymous,
// file-backed memory region mapped into this process and handed to the
// compositor as a wl_buffer. Not pooled across requests, per spec §4.3 —
// each Frame Task allocates and releases its own.
type shmBuffer struct {
	file   *os.File
	region []byte
	pool   *wire.ShmPool
	handle *wire.Buffer
}

// allocateShmBuffer creates a memfd of stride*height bytes, maps it, and
// wraps it in wl_shm_pool + wl_buffer objects of the given format. The
// memfd is never linked into any directory and stays open until release,
// avoiding the create/truncate/unlink dance the teacher's createTmpfile
// used for the same purpose.
func allocateShmBuffer(shm *wire.Shm, width, height, stride int32, format wire.ShmFormat, onRelease func()) (*shmBuffer, *Error) {
	size := int64(stride) * int64(height)
	if size <= 0 {
		return nil, newErrorf(KindAllocationFailed, "", "non-positive buffer size (stride=%d height=%d)", stride, height)
	}

	fd, err := unix.MemfdCreate("grim-frame", unix.MFD_CLOEXEC)
	if err != nil {
		return nil, newError(KindAllocationFailed, "", err)
	}
	file := os.NewFile(uintptr(fd), "grim-frame")

	if err := unix.Ftruncate(int(fd), size); err != nil {
		file.Close()
		return nil, newError(KindAllocationFailed, "", err)
	}

	region, err := unix.Mmap(int(fd), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, newError(KindAllocationFailed, "", err)
	}

	pool := shm.CreatePool(int(fd), int32(size))
	buf := pool.CreateBuffer(0, width, height, stride, format, &wire.BufferHandlers{
		OnRelease: onRelease,
	})

	return &shmBuffer{file: file, region: region, pool: pool, handle: buf}, nil
}

// bytes returns the raw mapped memory backing this buffer.
func (b *shmBuffer) bytes() []byte {
	return b.region
}

// release tears the buffer down in the order spec §4.3 requires: the
// memory region, then the compositor handle and pool, then the file
// descriptor.
func (b *shmBuffer) release() {
	if b.region != nil {
		unix.Munmap(b.region)
		b.region = nil
	}
	if b.handle != nil {
		b.handle.Destroy()
	}
	if b.pool != nil {
		b.pool.Destroy()
	}
	if b.file != nil {
		b.file.Close()
	}
}
