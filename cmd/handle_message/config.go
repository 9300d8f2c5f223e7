package main

type config struct {
	SNSTopicARN string `envconfig:"SNS_TOPIC_ARN" required:"true"`
}
