package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/trezcool/shms/client"
	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/visitor"
)

var readPasswordFunc = term.ReadPassword // mockable

type commands struct {
	ctl   *client.Client
	store *client.Store
	out   io.Writer
}

func (cmd *commands) list() []*cli.Command {
	studentFlag := &cli.StringFlag{Name: "student", Usage: "student email"}
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "sign in (the password is prompted)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "role", Usage: "admin, student, warden or security"},
			},
			Action: cmd.login,
		},
		{Name: "logout", Usage: "clear the stored session", Action: cmd.logout},
		{
			Name:   "dashboard",
			Usage:  "show the dashboard of the signed in role",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "role", Usage: "override the session role"}},
			Action: cmd.dashboard,
		},
		{
			Name:  "complaint",
			Usage: "file a complaint",
			Flags: []cli.Flag{studentFlag, &cli.StringFlag{Name: "category"}, &cli.StringFlag{Name: "details"}},
			Action: func(c *cli.Context) error {
				comp, local, err := cmd.ctl.SubmitComplaint(c.Context, complaint.NewComplaint{
					Student:  c.String("student"),
					Category: c.String("category"),
					Details:  c.String("details"),
				})
				return cmd.saved("complaint", comp.ID, local, err)
			},
		},
		{
			Name:  "outpass",
			Usage: "request an outpass",
			Flags: []cli.Flag{
				studentFlag,
				&cli.StringFlag{Name: "from", Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "to", Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "reason", Required: true},
			},
			Action: func(c *cli.Context) error {
				out, local, err := cmd.ctl.RequestOutpass(c.Context, outpass.NewOutpass{
					Student:  c.String("student"),
					FromDate: c.String("from"),
					ToDate:   c.String("to"),
					Reason:   c.String("reason"),
				})
				return cmd.saved("outpass", out.ID, local, err)
			},
		},
		{
			Name:  "visitor",
			Usage: "register a visitor at the gate",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Required: true},
				&cli.StringFlag{Name: "for", Usage: "who is visited"},
				&cli.StringFlag{Name: "id-proof"},
				&cli.StringFlag{Name: "phone"},
			},
			Action: func(c *cli.Context) error {
				v, local, err := cmd.ctl.RegisterVisitor(c.Context, visitor.NewVisitor{
					Name:       c.String("name"),
					VisitorFor: c.String("for"),
					IDProof:    c.String("id-proof"),
					Phone:      c.String("phone"),
				})
				return cmd.saved("visitor", v.ID, local, err)
			},
		},
		{
			Name:  "feedback",
			Usage: "rate the mess",
			Flags: []cli.Flag{
				studentFlag,
				&cli.StringFlag{Name: "mess"},
				&cli.IntFlag{Name: "rating", Required: true, Usage: "1 to 5"},
				&cli.StringFlag{Name: "comments"},
			},
			Action: func(c *cli.Context) error {
				fb, local, err := cmd.ctl.SubmitFeedback(c.Context, feedback.NewFeedback{
					Student:  c.String("student"),
					Mess:     c.String("mess"),
					Rating:   c.Int("rating"),
					Comments: c.String("comments"),
				})
				return cmd.saved("feedback", fb.ID, local, err)
			},
		},
		{
			Name:  "room",
			Usage: "add a room",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "number", Required: true},
				&cli.IntFlag{Name: "capacity", Value: 1},
				&cli.IntFlag{Name: "occupancy"},
			},
			Action: func(c *cli.Context) error {
				capacity, occupancy := c.Int("capacity"), c.Int("occupancy")
				r, local, err := cmd.ctl.SaveRoom(c.Context, room.NewRoom{
					Number:    c.String("number"),
					Capacity:  &capacity,
					Occupancy: &occupancy,
				})
				return cmd.saved("room", r.ID, local, err)
			},
		},
		{
			Name:  "notice",
			Usage: "publish a notice (admin)",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "title", Required: true},
				&cli.StringFlag{Name: "category"},
				&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, today by default"},
				&cli.StringFlag{Name: "content"},
			},
			Action: func(c *cli.Context) error {
				n, local, err := cmd.ctl.PublishNotice(c.Context, notice.NewNotice{
					Title:    c.String("title"),
					Category: c.String("category"),
					Date:     c.String("date"),
					Content:  c.String("content"),
				})
				return cmd.saved("notice", n.ID, local, err)
			},
		},
		{
			Name:      "resolve",
			Usage:     "resolve a complaint",
			ArgsUsage: "ID",
			Action: func(c *cli.Context) error {
				id, err := argID(c)
				if err != nil {
					return err
				}
				comp, local, err := cmd.ctl.ResolveComplaint(c.Context, id)
				return cmd.moved("complaint", comp.ID, comp.Status, local, err)
			},
		},
		{Name: "approve", Usage: "approve an outpass", ArgsUsage: "ID", Action: cmd.decide(true)},
		{Name: "reject", Usage: "reject an outpass", ArgsUsage: "ID", Action: cmd.decide(false)},
		{
			Name:      "verify",
			Usage:     "check a student out at the gate",
			ArgsUsage: "OUTPASS_ID|STUDENT_EMAIL|STUDENT_ID",
			Action: func(c *cli.Context) error {
				out, local, err := cmd.ctl.VerifyOutpass(c.Context, c.Args().First())
				return cmd.moved("outpass", out.ID, out.Status, local, err)
			},
		},
		{
			Name:      "return",
			Usage:     "mark a student back in",
			ArgsUsage: "OUTPASS_ID|STUDENT_EMAIL|STUDENT_ID",
			Action: func(c *cli.Context) error {
				out, local, err := cmd.ctl.MarkReturned(c.Context, c.Args().First())
				return cmd.moved("outpass", out.ID, out.Status, local, err)
			},
		},
		{
			Name:   "report",
			Usage:  "export the CSV report",
			Flags:  []cli.Flag{&cli.StringFlag{Name: "out", Usage: "file to write, stdout by default"}},
			Action: cmd.report,
		},
	}
}

func argID(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return 0, errors.Errorf("%q is not a valid id", c.Args().First())
	}
	return id, nil
}

func (cmd *commands) login(c *cli.Context) error {
	fmt.Fprint(cmd.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cmd.out)
	if err != nil {
		return err
	}
	sess, err := cmd.ctl.Login(c.Context, c.String("email"), string(pwd), c.String("role"))
	if err != nil {
		return err
	}
	mode := "server"
	if sess.Demo {
		mode = "demo"
	}
	fmt.Fprintf(cmd.out, "Signed in as %s (%s, %s session) -> %s dashboard\n",
		sess.User.Email, sess.User.Role, mode, client.Section(sess.User.Role))
	return nil
}

func (cmd *commands) logout(*cli.Context) error {
	if err := cmd.ctl.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.out, "Signed out")
	return nil
}

func (cmd *commands) dashboard(c *cli.Context) error {
	role := c.String("role")
	if role == "" {
		usr, found, err := cmd.ctl.CurrentUser()
		if err != nil {
			return err
		}
		if !found {
			return cli.Exit("not signed in", 1)
		}
		role = usr.Role
	}
	d, err := cmd.ctl.LoadSection(c.Context, role)
	if err != nil {
		return err
	}
	return renderDashboard(cmd.out, d)
}

func (cmd *commands) decide(approve bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := argID(c)
		if err != nil {
			return err
		}
		out, local, err := cmd.ctl.DecideOutpass(c.Context, id, approve)
		return cmd.moved("outpass", out.ID, out.Status, local, err)
	}
}

func (cmd *commands) report(c *cli.Context) error {
	w := cmd.out
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	local, err := cmd.ctl.GenerateReport(c.Context, w)
	if err != nil {
		return err
	}
	if local {
		fmt.Fprintln(os.Stderr, "report built from local data")
	}
	return nil
}

func where(local bool) string {
	if local {
		return "saved locally, the server was unavailable"
	}
	return "saved"
}

func (cmd *commands) saved(kind string, id int64, local bool, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "%s #%d %s\n", kind, id, where(local))
	return nil
}

func (cmd *commands) moved(kind string, id int64, status string, local bool, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "%s #%d is now %q (%s)\n", kind, id, status, where(local))
	return nil
}
