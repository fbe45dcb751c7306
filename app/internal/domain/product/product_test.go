package product

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProduct_Available(t *testing.T) {
	p := &Product{Stock: 5}

	require.Equal(t, int64(5), p.Available(0))
	require.Equal(t, int64(2), p.Available(3))
	require.Equal(t, int64(0), p.Available(5))
	require.Equal(t, int64(0), p.Available(9))
}
