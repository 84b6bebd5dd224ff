package hasher

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/moyu-x/media-dedup/pkg/logger"
)

// DigestLen 是十六进制指纹的固定宽度
const DigestLen = 16

// Fingerprint 读取文件的全部内容并计算 xxHash 指纹
// 返回 16 位十六进制摘要和读取的字节数
func Fingerprint(filePath string) (string, int64, error) {
	logger.Get().Debug().Msgf("计算文件指纹: %s", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		logger.Get().Error().Err(err).Msgf("无法打开文件: %s", filePath)
		return "", 0, err
	}
	defer file.Close()

	hash := xxhash.New()
	n, err := io.Copy(hash, file)
	if err != nil {
		logger.Get().Error().Err(err).Msgf("计算指纹失败: %s", filePath)
		return "", 0, err
	}

	digest := fmt.Sprintf("%016x", hash.Sum64())
	logger.Get().Trace().Msgf("文件指纹计算完成: %s -> %s", filePath, digest)
	return digest, n, nil
}

// ShortDigest 返回指纹的前 8 位，用于冲突消解后的文件命名
func ShortDigest(digest string) string {
	if len(digest) < 8 {
		return digest
	}
	return digest[:8]
}
