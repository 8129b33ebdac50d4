// Package rules defines the built-in rule catalogue. The order of the
// concatenated groups is the priority order: a later rule that matches
// overrides every earlier one.
package rules

// Stored switch ids. Several rules may share one id.
const (
	TopicOpenNewTab          = "topic:open-new-tab"
	TopicInTopicOpenOther    = "topic:in-topic-open-other"
	TopicSameTopicKeepNative = "topic:same-topic-keep-native"

	UserOpenNewTab            = "user:open-new-tab"
	UserInProfileOpenOther    = "user:in-profile-open-other"
	UserSameProfileKeepNative = "user:same-profile-keep-native"

	SidebarNonTopicKeepNative = "sidebar:non-topic-keep-native"
	SidebarInTopicNewTab      = "sidebar:in-topic-new-tab"

	PopupUserCard   = "popup:user-card"
	PopupUserMenu   = "popup:user-menu"
	PopupSearchMenu = "popup:search-menu"

	AttachmentKeepNative = "attachment:keep-native"
)

// Group names used by Describe.
const (
	GroupTopic      = "topic"
	GroupUser       = "user"
	GroupSidebar    = "sidebar"
	GroupPopup      = "popup"
	GroupCustom     = "custom"
	GroupAttachment = "attachment"
)
