package internal

const (
	// 默认配置文件目录
	DefaultConfigDir = "~/.media-dedup"

	// 指纹台账与操作脚本的默认文件名，写入扫描根目录
	DefaultLedgerName = "checksums.txt"
	DefaultScriptName = "potentially-destructive-remove.sh"

	// 哈希任务通道缓冲区大小
	DefaultBufferSize = 1000

	DefaultWorkers = 4
)

// DefaultVideoFormats 是媒体文件扩展名白名单
var DefaultVideoFormats = []string{
	"mp4", "flv", "mkv", "avi", "mov", "wmv", "webm", "m4v", "mpg", "mpeg", "ts",
}
