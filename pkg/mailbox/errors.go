package mailbox

import (
	"fmt"

	"github.com/pkg/errors"
)

// 邮箱相关错误
var (
	// ErrClosedMailbox 邮箱已关闭，不再接受新消息
	ErrClosedMailbox = errors.New("mailbox: closed")
	// ErrInterrupted 在消息处理过程中观察到上下文取消
	ErrInterrupted = errors.New("mailbox: interrupted")
	// ErrActorNotSet 尚未通过 SetActor 发布执行对象
	ErrActorNotSet = errors.New("mailbox: actor not set")
)

// 工厂配置相关错误
var (
	// ErrInvalidCapacity 容量必须是非负整数
	ErrInvalidCapacity = errors.New("mailbox: capacity must be >= 0")
	// ErrInvalidPushTimeout 推送超时时间不能为空
	ErrInvalidPushTimeout = errors.New("mailbox: push-timeout must not be nil")
	// ErrNilComparator 优先级邮箱必须提供比较函数
	ErrNilComparator = errors.New("mailbox: priority mailbox requires a comparator")
)

// ErrQueueCapabilityUnsupported reports that a factory's queue does not
// satisfy a declared mailbox requirement.
func ErrQueueCapabilityUnsupported(requirement string) error {
	return fmt.Errorf("mailbox: queue does not satisfy requirement %q", requirement)
}

// ErrUnknownMailboxType reports a factory lookup miss.
func ErrUnknownMailboxType(name string) error {
	return fmt.Errorf("mailbox: unknown mailbox type %q", name)
}

// wrap adds context to err using the same wrapping idiom as the rest of
// the module; returns nil if err is nil.
func wrap(err error, message string) error {
	return errors.Wrap(err, message)
}
