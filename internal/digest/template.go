package digest

const emailHTML = `{{define "nav"}}
<div style="text-align: right; margin-top: 20px;">
  <a href="#top" style="color: #0084C7; text-decoration: none; font-size: 14px; padding: 5px 10px; background-color: #f8fafc; border-radius: 4px;">↑ Back to top</a>
</div>
{{end}}

{{define "separator"}}<div style="border-top: 2px dashed #e0e0e0; margin: 30px 0;"></div>{{end}}

<div id="top" style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f3f8fa;">
  <h1 style="color: #0084C7; margin-bottom: 15px; text-align: center; border-bottom: 2px solid #0084C7; padding-bottom: 10px;">AI News Digest</h1>

  {{with .Header.CoverImageURL}}
  <img src="{{.}}" alt="Digest cover" style="max-width: 100%; height: auto; border-radius: 8px; margin-bottom: 20px;" />
  {{end}}

  {{with .Summary}}
  <div style="background-color: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,132,199,0.1); font-size: 16px; line-height: 1.6; color: #2c3e50;">
    {{.}}
  </div>
  {{end}}

  <div style="background-color: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
    <h2 style="color: #0084C7; margin-bottom: 15px;">📋 Today's AI Digest</h2>
    <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 20px; border: 1px solid #e2e8f0;">
      <p style="font-size: 16px; line-height: 1.6; color: #2c3e50;">A curated selection of today's most important AI developments.</p>
    </div>
    <ul style="list-style-type: none; padding-left: 0;">
      <li style="margin-bottom: 15px;">
        <a href="#arxiv" style="color: #0084C7; text-decoration: none; padding: 8px 15px; background-color: white; border-radius: 4px; display: inline-block; width: 100%; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
          📚 Research Papers ({{.Arxiv.Count}} papers)
          <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⏱️ {{.Arxiv.Minutes}}min read</span>
        </a>
      </li>
      <li style="margin-bottom: 15px;">
        <a href="#github" style="color: #0084C7; text-decoration: none; padding: 8px 15px; background-color: white; border-radius: 4px; display: inline-block; width: 100%; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
          💻 GitHub Trends ({{.Github.Count}} repos)
          <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⏱️ {{.Github.Minutes}}min read</span>
        </a>
      </li>
      <li style="margin-bottom: 15px;">
        <a href="#hackernews" style="color: #0084C7; text-decoration: none; padding: 8px 15px; background-color: white; border-radius: 4px; display: inline-block; width: 100%; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
          🔥 HackerNews ({{.Hackernews.Count}} posts)
          <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⏱️ {{.Hackernews.Minutes}}min read</span>
        </a>
      </li>
      <li style="margin-bottom: 15px;">
        <a href="#reddit" style="color: #0084C7; text-decoration: none; padding: 8px 15px; background-color: white; border-radius: 4px; display: inline-block; width: 100%; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
          🎯 Reddit ({{.Reddit.Count}} discussions)
          <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⏱️ {{.Reddit.Minutes}}min read</span>
        </a>
      </li>
    </ul>
  </div>

  {{template "separator"}}

  <div id="arxiv" style="margin-bottom: 40px;">
    <h2 style="color: #0084C7; margin-bottom: 15px;">📚 Latest Research Papers</h2>
    <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
      <p style="margin: 0; font-size: 16px; line-height: 1.6; color: #2c3e50;"><strong>Research Papers:</strong> Showing {{.Arxiv.Count}} items. Latest academic research in AI and machine learning.</p>
    </div>
    {{range $i, $paper := .News.Arxiv}}
    <div style="background-color: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
      <div style="display: flex; align-items: center; margin-bottom: 15px;">
        <span style="background-color: #0084C7; color: white; padding: 5px 10px; border-radius: 4px; margin-right: 10px;">Paper {{inc $i}}/{{$.Arxiv.Count}}</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">📄 Research Paper</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⏱️ 3min read</span>
      </div>
      <h2 style="color: #0084C7; margin-bottom: 15px;">{{$paper.Title}}</h2>
      {{with $paper.ImageURL}}
      <img src="{{.}}" alt="Paper visualization" style="max-width: 100%; height: auto; border-radius: 8px; margin-bottom: 20px;" />
      {{end}}
      {{with $paper.AISummary}}
      <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
        <h3 style="color: #0084C7; margin-bottom: 15px;">Key Results</h3>
        <ul style="list-style-type: none; padding-left: 0;">
          {{range .Results}}<li style="margin-bottom: 15px;">• {{.}}</li>{{end}}
        </ul>
      </div>
      <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
        <h3 style="color: #0084C7; margin-bottom: 15px;">Key Insights</h3>
        <ul style="list-style-type: none; padding-left: 0;">
          {{range .Insights}}<li style="margin-bottom: 15px;">• {{.}}</li>{{end}}
        </ul>
      </div>
      {{end}}
      <p style="text-align: center; margin-top: 20px;">
        <a href="{{$paper.PaperURL}}" style="background-color: #0084C7; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; font-weight: bold;">Read the full paper →</a>
      </p>
    </div>
    {{end}}
    {{template "nav"}}
  </div>

  {{template "separator"}}

  <div id="github" style="margin-bottom: 40px;">
    <h2 style="color: #0084C7; margin-bottom: 15px;">💻 Trending on GitHub</h2>
    <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
      <p style="margin: 0; font-size: 16px; line-height: 1.6; color: #2c3e50;"><strong>GitHub Repositories:</strong> Showing {{.Github.Count}} items. Most popular AI-related repositories today.</p>
    </div>
    {{range $i, $repo := .News.Github}}
    <div style="background-color: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
      <div style="display: flex; align-items: center; margin-bottom: 15px;">
        <span style="background-color: #0084C7; color: white; padding: 5px 10px; border-radius: 4px; margin-right: 10px;">Repo {{inc $i}}/{{$.Github.Count}}</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">🔤 {{language $repo.Language}}</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⭐ {{$repo.StarsToday}} stars today</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">🔄 {{$repo.Forks}} forks</span>
      </div>
      <h2 style="color: #0084C7; margin-bottom: 15px;">
        <a href="{{$repo.URL}}" style="color: #0084C7; text-decoration: none;">{{$repo.Title}}</a>
      </h2>
      {{with $repo.Screenshot}}
      <img src="{{.}}" alt="Repository Screenshot" style="max-width: 100%; height: auto; border-radius: 8px; margin-bottom: 20px;" />
      {{end}}
      {{with $repo.AIContent}}
      <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
        <h3 style="color: #0084C7; margin-bottom: 15px;">Key Features</h3>
        <ul style="list-style-type: none; padding-left: 0;">
          {{range .Features}}<li style="margin-bottom: 15px;">• {{.}}</li>{{end}}
        </ul>
      </div>
      {{end}}
      {{with $repo.GraphURL}}
      <p style="text-align: center; margin-top: 20px;">
        <a href="{{.}}" style="color: #0084C7; text-decoration: none;">📦 Explore the repository structure →</a>
      </p>
      {{end}}
    </div>
    {{end}}
    {{template "nav"}}
  </div>

  {{template "separator"}}

  <div id="hackernews" style="margin-bottom: 40px;">
    <h2 style="color: #0084C7; margin-bottom: 15px;">🔥 HackerNews Highlights</h2>
    <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
      <p style="margin: 0; font-size: 16px; line-height: 1.6; color: #2c3e50;"><strong>HackerNews Posts:</strong> Showing {{.Hackernews.Count}} items. Top AI discussions from the HN community.</p>
    </div>
    {{range .News.Hackernews}}
    <div style="background-color: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
      <div style="display: flex; align-items: center; margin-bottom: 15px;">
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">📰 HN Discussion</span>
      </div>
      <h3 style="color: #0084C7; margin-bottom: 15px;">
        <a href="{{.Link}}" style="color: #0084C7; text-decoration: none;">{{.Title}}</a>
      </h3>
    </div>
    {{end}}
    {{template "nav"}}
  </div>

  {{template "separator"}}

  <div id="reddit" style="margin-bottom: 40px;">
    <h2 style="color: #0084C7; margin-bottom: 15px;">🎯 Reddit Discussions</h2>
    <div style="background-color: #f8fafc; border-radius: 8px; padding: 15px; margin-bottom: 15px; border: 1px solid #e2e8f0;">
      <p style="margin: 0; font-size: 16px; line-height: 1.6; color: #2c3e50;"><strong>Reddit Posts:</strong> Showing {{.Reddit.Count}} items. Popular AI discussions across Reddit.</p>
    </div>
    {{range .News.Reddit}}
    <div style="background-color: white; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 2px 4px rgba(0,132,199,0.1);">
      <div style="display: flex; align-items: center; margin-bottom: 15px;">
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">💬 r/{{.Subreddit}}</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">⬆️ {{.Score}}</span>
        <span style="background-color: #f3f8fa; padding: 5px 10px; border-radius: 4px; margin-right: 10px; font-size: 14px;">💭 {{.NumComments}} comments</span>
      </div>
      <h3 style="color: #0084C7; margin-bottom: 15px;">
        <a href="{{.URL}}" style="color: #0084C7; text-decoration: none;">{{.Title}}</a>
      </h3>
      {{with .Summary}}<p style="font-size: 16px; line-height: 1.6; color: #2c3e50;">{{.}}</p>{{end}}
    </div>
    {{end}}
    {{template "nav"}}
  </div>

  {{template "separator"}}

  <div style="background-color: #0084C7; color: white; padding: 20px; text-align: center; border-radius: 8px;">
    <p style="margin-bottom: 10px;">Found this digest helpful? Share it with your network!</p>
    <p style="margin: 0;">
      {{with .Header.ManageSubscriptionURL}}<a href="{{.}}" target="_blank" rel="noopener noreferrer" style="color: #ffffff; text-decoration: underline;">Manage subscription</a> • {{end}}
      <a href="#top" style="color: #ffffff; text-decoration: underline;">Back to top</a>
    </p>
  </div>
</div>
`
