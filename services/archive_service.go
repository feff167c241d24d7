package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
)

// ArchiveService copies voicemail recordings into S3 so they outlive the
// provider's retention window.
type ArchiveService struct {
	env    *types.Environment
	client *resty.Client
}

func NewArchiveService(env *types.Environment, mock bool) *ArchiveService {
	client := resty.New().
		SetBasicAuth(global.Conf.Twilio.AccountSid, global.Conf.Twilio.AuthToken)
	if mock {
		httpmock.ActivateNonDefault(client.GetClient())
	}
	return &ArchiveService{
		env:    env,
		client: client,
	}
}

// ArchiveRecording downloads the recording audio and uploads it under
// recordings/<sid>.mp3. Returns the s3 URL of the stored object.
func (as *ArchiveService) ArchiveRecording(ctx context.Context, vm *types.Voicemail) (string, error) {
	if vm.RecordingURL == "" {
		return "", types.ErrBadRequest
	}
	resp, err := as.client.R().SetContext(ctx).Get(vm.RecordingURL + ".mp3")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("recording download returned %d", resp.StatusCode())
	}
	content := resp.Body()
	if len(content) == 0 {
		return "", types.ErrBadRequest
	}

	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	path := fmt.Sprintf("recordings/%s.mp3", vm.RecordingSid)
	_, uErr := as.env.S3Uploader.Upload(uploadCtx, &s3.PutObjectInput{
		Bucket:      aws.String(global.Conf.Storage.Bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("audio/mpeg"),
	})
	if uErr != nil {
		level.Error(global.Logger).Log("error", uErr, "msg", "failed to upload recording", "path", path)
		return "", uErr
	}
	return fmt.Sprintf("s3://%s/%s", global.Conf.Storage.Bucket, path), nil
}
