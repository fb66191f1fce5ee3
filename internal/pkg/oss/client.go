package oss

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/qs3c/repurpose_server/config"
)

type Client struct {
	bucket    *oss.Bucket
	prefix    string
	signedTTL int64
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	prefix := strings.Trim(cfg.ExportPrefix, "/")
	if prefix == "" {
		prefix = "exports"
	}
	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = 3600
	}

	return &Client{
		bucket:    bucket,
		prefix:    prefix,
		signedTTL: ttl,
	}, nil
}

// ExportKey 生成历史导出文件的 object key
func (c *Client) ExportKey(userID int64, at time.Time) string {
	return path.Join(c.prefix, fmt.Sprintf("%d", userID), fmt.Sprintf("generations-%s.json", at.UTC().Format("20060102-150405")))
}

// UploadJSON 上传 JSON 文件，返回 object key
func (c *Client) UploadJSON(objectKey string, data []byte) (string, error) {
	err := c.bucket.PutObject(objectKey, bytes.NewReader(data),
		oss.ContentType("application/json"),
		oss.ContentDisposition(fmt.Sprintf("attachment; filename=%q", path.Base(objectKey))),
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

// SignedURLTTL 签名 URL 有效期（秒）
func (c *Client) SignedURLTTL() int64 {
	return c.signedTTL
}

// GetSignedURL 生成带签名的临时访问URL，不传有效期时使用配置值
func (c *Client) GetSignedURL(objectKey string, expireSeconds ...int64) (string, error) {
	expire := c.signedTTL
	if len(expireSeconds) > 0 && expireSeconds[0] > 0 {
		expire = expireSeconds[0]
	}

	signedURL, err := c.bucket.SignURL(objectKey, oss.HTTPGet, expire)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return signedURL, nil
}
