package romi

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	protodesc "github.com/golang/protobuf/descriptor"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/protoc-gen-go/descriptor"
	"github.com/stretchr/testify/require"
)

func TestFileDescriptor(t *testing.T) {
	gz := proto.FileDescriptor("telemetry.proto")
	require.NotEmpty(t, gz)
	r, err := gzip.NewReader(bytes.NewReader(gz))
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	var fd descriptor.FileDescriptorProto
	require.NoError(t, proto.Unmarshal(data, &fd))
	require.Equal(t, "romi.v1", fd.GetPackage())
	require.Equal(t, "proto3", fd.GetSyntax())

	cases := []struct {
		msg    protodesc.Message
		fields int
	}{
		{&TaskStats{}, 11},
		{&Sample{}, 2},
		{&Snapshot{}, 6},
	}
	for _, c := range cases {
		_, path := c.msg.Descriptor()
		m := fd.MessageType[path[0]]
		require.Equal(t, proto.MessageName(c.msg), "romi.v1."+m.GetName())
		require.Len(t, m.Field, c.fields)
	}
	est := fd.MessageType[2].Field[5]
	require.Equal(t, "estimate", est.GetName())
	require.Equal(t, descriptor.FieldDescriptorProto_LABEL_REPEATED, est.GetLabel())
	require.Equal(t, descriptor.FieldDescriptorProto_TYPE_DOUBLE, est.GetType())
}

