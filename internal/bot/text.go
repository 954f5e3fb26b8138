package bot

// User-facing copy. Kept as plain text; no parse mode, so titles with
// Markdown characters never break a send.

const welcomeText = `Hello %s! 👋

🤖 Telegram Download Bot

📥 Supported platforms:
✅ YouTube (with quality selection)
✅ Twitter/X (with quality selection)
✅ Instagram
✅ TikTok
✅ Facebook
✅ Direct file links (original format preserved)

🛠 Commands:
/start - This menu
/help - Detailed help
/status - Bot status (admin)
/pause [hours] - Pause bot (admin)
/resume - Resume bot (admin)
/clean - Clean temp files (admin)
/schedule on/off [start end] - Working hours (admin)

🎯 Just send me a video link!
💡 Files are deleted automatically a few minutes after delivery.`

const helpText = `📖 Help

🔗 How to use:
1. Send a YouTube or Twitter/X link
2. Pick a quality from the menu
3. The file arrives with your chosen quality

Other platforms (Instagram, TikTok, Facebook) download in the best
available quality. Direct file links keep their original format.

📁 File types:
• Video: MP4, MKV, WEBM, ...
• Audio: MP3, M4A, WAV, ...
• Images: JPG, PNG, GIF, ...
• Documents and archives: PDF, DOC, ZIP, ...

⏰ Temporary files are deleted automatically after delivery.`

const usageHint = `Please send a valid URL starting with http:// or https://

🌟 YouTube and Twitter/X links get a quality menu;
direct file links keep their original format.`

const scheduleUsage = `Usage:
/schedule on [start end] - enable window, e.g. /schedule on 08:00 23:00
/schedule off - disable the window`
