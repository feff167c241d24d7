package main

import (
	"context"
	"strconv"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/repository"
	"github.com/antivoicemail/go-antivoicemail-server/services"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kit/log/level"
)

// Configure DB Repositories and create DB Selector
func ConfigDBSelector() repository.DBSelector {
	// configure Repository (couchDB)
	repoUrl := global.Conf.CouchDB.Scheme + "://" + global.Conf.CouchDB.Host + ":" + strconv.Itoa(global.Conf.CouchDB.Port)
	mailboxRepo, mailboxRepoErr := repository.NewCouchDBRepository(repoUrl, repository.Mailbox, global.Conf.CouchDB.Username, global.Conf.CouchDB.Password, false)
	if mailboxRepoErr != nil {
		global.Logger.Log("error", "Failed to create repositories", "error", mailboxRepoErr.Error())
		panic(mailboxRepoErr)
	}

	dbSelector := repository.NewCouchDBSelector()
	dbSelector.AddDB(mailboxRepo)

	return dbSelector
}

// ConfigS3Storage wires the S3 clients used for archiving voicemail recordings.
func ConfigS3Storage(conf *global.Config, env *types.Environment) {
	if !conf.Storage.ArchiveRecordings {
		return
	}
	credentials := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(conf.Storage.Key, conf.Storage.Secret, ""))
	awsConf, err := config.LoadDefaultConfig(context.TODO(), config.WithCredentialsProvider(credentials), config.WithRegion(conf.Storage.Region))
	if err != nil {
		panic(err)
	}
	s3Client := s3.NewFromConfig(awsConf)
	uploader := manager.NewUploader(s3Client)
	env.AddS3Uploader(uploader)

	env.S3Client = s3Client
}

// ConfigWebhookProvisioning points the Twilio number at this server once at
// startup and re-checks daily, so a redeploy under a new public URL heals
// itself without manual console work.
func ConfigWebhookProvisioning(env *types.Environment) {
	messagingService := services.NewMessagingService(env)

	ensure := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := messagingService.EnsureNumberWebhooks(ctx); err != nil {
			level.Error(global.Logger).Log("error", err, "msg", "failed to update number webhooks")
		}
	}

	env.Cron.AddFunc("@every 24h", ensure)
	env.Cron.Start()
	go ensure() // run once on startup
}
