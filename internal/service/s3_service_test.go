package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type memoryObjects struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memoryObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memoryObjects) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	m.objects[key] = data
	m.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3ServiceRoundTrip(t *testing.T) {
	objects := &memoryObjects{objects: map[string][]byte{}, types: map[string]string{}}
	svc := &S3Service{bucket: "ref", client: objects}
	ctx := context.Background()

	if err := svc.Upload(ctx, "ward_coordinates.json", []byte(`{}`), "application/json"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if objects.types["ref/ward_coordinates.json"] != "application/json" {
		t.Fatalf("content type = %q", objects.types["ref/ward_coordinates.json"])
	}

	data, err := svc.Download(ctx, "ward_coordinates.json")
	if err != nil || string(data) != "{}" {
		t.Fatalf("Download = %q, %v", data, err)
	}

	if _, err := svc.Download(ctx, "missing.json"); err == nil {
		t.Fatal("expected error for missing object")
	}
}
