package bounty

// Message keys. The host owns the localized strings.
const (
	MsgKillStreak      = "bh.kill_streak"      // streak
	MsgAward           = "bh.award"            // bounty
	MsgKillFeed        = "bh.kill_feed"        // victim name, victim streak, bounty
	MsgAssist          = "bh.assist"           // victim name, points
	MsgBountyCollected = "bh.bounty_collected" // killer name, victim name, bounty
	MsgBountyLost      = "bh.bounty_lost"      // victim name, bounty
	MsgSpotted         = "bh.spotted"          // seconds
	MsgFlag            = "bh.flag"             // bounty
	MsgBigBounty       = "bh.big_bounty"       // bounty
	MsgHeading         = "bh.heading"          // compass point
	MsgDistance        = "bh.distance"         // meters
	MsgUnknown         = "bh.unknown"
	MsgScavenged       = "bh.scavenged"        // points
	MsgDeployCountdown = "bh.deploy_countdown" // seconds
)
